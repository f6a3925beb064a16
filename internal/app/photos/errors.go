package photos

// SagaPhase tags how far the upload saga progressed before an outcome was
// reached. Tests assert on it instead of relying on incidental call ordering.
type SagaPhase string

const (
	// PhaseStarted: no external side effect has happened yet.
	PhaseStarted SagaPhase = "started"
	// PhaseUploaded: the binary is in the remote store, metadata is not.
	PhaseUploaded SagaPhase = "uploaded"
	// PhasePersisted: both stores agree; the saga succeeded.
	PhasePersisted SagaPhase = "persisted"
	// PhaseCompensated: metadata persistence failed and a compensating
	// delete of the uploaded asset was attempted.
	PhaseCompensated SagaPhase = "compensated"
)

// Error is an application-layer error that can be mapped to an HTTP response.
// Phase records where the upload saga stood when the error was produced; it
// is PhaseStarted for failures with no external side effects.
type Error struct {
	Status  int
	Code    string
	Message string
	Phase   SagaPhase
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}
