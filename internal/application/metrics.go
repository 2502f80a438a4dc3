package application

import (
	"time"

	"voice-servo/internal/domain"
)

type Metrics interface {
	CommandPublished(cmd domain.Command)
	Failure(kind domain.ErrorKind)
	Transcribed(elapsed time.Duration)
}

type NoopMetrics struct{}

func (n *NoopMetrics) CommandPublished(_ domain.Command) {}
func (n *NoopMetrics) Failure(_ domain.ErrorKind)        {}
func (n *NoopMetrics) Transcribed(_ time.Duration)       {}
