//go:build !rp2040 && !rp2350

package logx

import "github.com/sirupsen/logrus"

// Host builds log through logrus. SetLevel wires the CLI verbosity flag.

func SetLevel(debug bool) {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func Debugf(svc, format string, args ...any) {
	logrus.WithField("svc", svc).Debugf(format, args...)
}

func Infof(svc, format string, args ...any) {
	logrus.WithField("svc", svc).Infof(format, args...)
}

func Warnf(svc, format string, args ...any) {
	logrus.WithField("svc", svc).Warnf(format, args...)
}

func Errorf(svc, format string, args ...any) {
	logrus.WithField("svc", svc).Errorf(format, args...)
}
