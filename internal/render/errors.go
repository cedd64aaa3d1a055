package render

// Stage identifies where in the pipeline a render request failed.
type Stage string

const (
	StageInput  Stage = "input"
	StageFetch  Stage = "fetch"
	StageRender Stage = "render"
	StageUpload Stage = "upload"
)

// StageError is a fatal pipeline failure tagged with the stage it occurred
// in, so callers can map it to a transport status.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
