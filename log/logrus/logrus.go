// Package logruslog adapts sirupsen/logrus to the clustercache Logger.
package logruslog

import (
	"github.com/sirupsen/logrus"

	cc "github.com/unkn0wn-root/clustercache"
)

type Logger struct{ E *logrus.Entry }

var _ cc.Logger = Logger{}

func New(e *logrus.Entry) Logger { return Logger{E: e} }

func (l Logger) Debug(msg string, f cc.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f cc.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f cc.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f cc.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
