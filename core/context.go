package core

import "github.com/sirupsen/logrus"

// Context carries the shared logger a synchronizer reports data-rate
// warnings through. It plays the same role as the teacher's APIContext:
// callers reach a sub-logger via ErrLog/Log rather than touching a global.
type Context struct {
	Logger *logrus.Logger
}

// NewContext builds a Context around a fresh logrus.Logger with sane
// defaults. Callers that already run a logrus.Logger elsewhere in their
// process should construct Context directly instead.
func NewContext() *Context {
	return &Context{Logger: logrus.New()}
}

// Log returns a logger annotated for general informational messages.
func (c *Context) Log() *logrus.Entry {
	return c.Logger.WithField("component", "message-filters")
}

// StreamLog returns a logger annotated with the stream index, used for the
// one-shot data-rate warnings in ApproxSync.
func (c *Context) StreamLog(i int) *logrus.Entry {
	return c.Logger.WithField("component", "message-filters").WithField("stream", i)
}

// ErrLog returns a logger annotated with the given error, mirroring the
// teacher's `ns.ErrLog(err).Errorf(...)` idiom.
func (c *Context) ErrLog(err error) *logrus.Entry {
	return c.Logger.WithField("component", "message-filters").WithError(err)
}
