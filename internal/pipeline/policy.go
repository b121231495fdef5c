package pipeline

import (
	"errors"

	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/provider"
)

type failureMode int

const (
	// failHard aborts the run.
	failHard failureMode = iota
	// failSoftOnMalformed degrades only when the payload was unreadable.
	failSoftOnMalformed
	// failSoft always degrades.
	failSoft
)

type stepPolicy struct {
	progress int
	message  i18n.Key
	failure  failureMode
}

// policies is the single place that decides how each step reports and fails.
var policies = map[Step]stepPolicy{
	StepIdle:       {progress: 0, message: i18n.StatusIdle},
	StepText:       {progress: 10, message: i18n.StatusText, failure: failHard},
	StepQuiz:       {progress: 30, message: i18n.StatusQuiz, failure: failSoftOnMalformed},
	StepSlidesText: {progress: 50, message: i18n.StatusSlides, failure: failSoftOnMalformed},
	StepImages:     {progress: 65, message: i18n.StatusImages, failure: failSoft},
	StepAudio:      {progress: 85, message: i18n.StatusAudio, failure: failSoft},
	StepCompleted:  {progress: 100, message: i18n.StatusComplete},
	StepError:      {message: i18n.StatusError},
}

// retryAudioProgress is where a narration retry reports itself.
const retryAudioProgress = 90

// Progress is the checkpoint value published when a run enters step.
// ERROR has no checkpoint of its own.
func Progress(step Step) int {
	return policies[step].progress
}

// degrades reports whether err in step lets the run continue with an
// empty result.
func degrades(step Step, err error) bool {
	switch policies[step].failure {
	case failSoft:
		return true
	case failSoftOnMalformed:
		return errors.Is(err, provider.ErrMalformedResponse)
	}
	return false
}
