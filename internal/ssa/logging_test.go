package ssa

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestNoopLoggerDiscardsEverything(t *testing.T) {
	var l Logger = noopLogger{}
	require.NotPanics(t, func() {
		l.Tracef("x=%d", 1)
		l.Debugf("y=%d", 2)
	})
}

func TestLogrusLoggerTagsComponentField(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)

	l := logrusLogger{entry: logrus.NewEntry(base).WithField("component", "builder")}
	l.Debugf("hello %s", "world")

	require.Len(t, hook.Entries, 1)
	require.Equal(t, "builder", hook.Entries[0].Data["component"])
	require.Equal(t, "hello world", hook.Entries[0].Message)
}
