package linkedin

import "fmt"

// PublishStage identifies which step of the publish protocol failed.
type PublishStage string

const (
	StageImageDownload  PublishStage = "image-download"
	StageRegisterUpload PublishStage = "register-upload"
	StageImageUpload    PublishStage = "image-upload"
	StageCreatePost     PublishStage = "create-post"
)

// PublishError represents a failed publish call. StatusCode and Body carry
// the platform response when the failing step got one.
type PublishError struct {
	Stage      PublishStage
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func NewPublishError(stage PublishStage, message string) *PublishError {
	return &PublishError{
		Stage:   stage,
		Message: message,
	}
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("publish %s failed: %s (status %d: %s)", e.Stage, e.Message, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("publish %s failed: %s", e.Stage, e.Message)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func (e *PublishError) WithCause(err error) *PublishError {
	e.Err = err
	return e
}

func (e *PublishError) WithResponse(statusCode int, body string) *PublishError {
	e.StatusCode = statusCode
	e.Body = body
	return e
}
