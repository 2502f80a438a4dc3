package domain

import "errors"

var (
	ErrCaptureTimeout       = errors.New("no speech before listen timeout")
	ErrCaptureDevice        = errors.New("audio capture device error")
	ErrUnintelligible       = errors.New("could not understand audio")
	ErrTranscriptionService = errors.New("transcription service error")
	ErrUnrecognizedCommand  = errors.New("unrecognized command")
	ErrPublish              = errors.New("publishing command")
	ErrHardwareInit         = errors.New("indicator hardware unavailable")
)

// ErrorKind names the failure class of an error returned by a loop stage.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindCaptureTimeout       ErrorKind = "capture_timeout"
	KindCaptureDevice        ErrorKind = "capture_device"
	KindUnintelligible       ErrorKind = "unintelligible"
	KindTranscriptionService ErrorKind = "transcription_service"
	KindUnrecognizedCommand  ErrorKind = "unrecognized_command"
	KindPublish              ErrorKind = "publish"
	KindHardwareInit         ErrorKind = "hardware_init"
	KindUnknown              ErrorKind = "unknown"
)

// KindOf classifies err by the first sentinel found in its chain.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCaptureTimeout):
		return KindCaptureTimeout
	case errors.Is(err, ErrCaptureDevice):
		return KindCaptureDevice
	case errors.Is(err, ErrUnintelligible):
		return KindUnintelligible
	case errors.Is(err, ErrTranscriptionService):
		return KindTranscriptionService
	case errors.Is(err, ErrUnrecognizedCommand):
		return KindUnrecognizedCommand
	case errors.Is(err, ErrPublish):
		return KindPublish
	case errors.Is(err, ErrHardwareInit):
		return KindHardwareInit
	default:
		return KindUnknown
	}
}
