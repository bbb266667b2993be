package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	log := InitLogger("warn", true)

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.Same(t, log, GetLogger())
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := InitLogger("loud", false)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestWithComponent(t *testing.T) {
	InitLogger("info", true)

	entry := WithComponent("server")
	assert.Equal(t, "server", entry.Data["component"])
}
