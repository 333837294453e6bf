package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmsec/mutation-engine/pkg/logging"
)

func TestNew_JSONFormatWritesMessageField(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})
	l.Info("generation complete", "children", 3)
	assert.Contains(t, buf.String(), "generation complete")
	assert.Contains(t, buf.String(), "\"children\":3")
}

func TestWithField_AddsContextWithoutMutatingOriginal(t *testing.T) {
	var buf bytes.Buffer
	base := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})
	scoped := base.WithField("run_id", "abc")
	scoped.Info("starting")
	assert.Contains(t, buf.String(), "\"run_id\":\"abc\"")
}
