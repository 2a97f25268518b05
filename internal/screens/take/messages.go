package take

import (
	"time"

	"github.com/abhisek/quizforge/internal/app"
)

// timerTickMsg is sent every second to refresh the elapsed time.
type timerTickMsg time.Time

// submittedMsg carries the result of a background Submit call.
type submittedMsg struct {
	Outcome app.Outcome
}
