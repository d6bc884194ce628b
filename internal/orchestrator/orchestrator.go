// Package orchestrator drives one admin draft from file selection through
// cropping, upload and record submission.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/domain"
	"github.com/vidhi-1412/Realestate/pkg/utils"
)

type State int

const (
	StateIdle State = iota
	StateFileSelected
	StateCropping
	StateUploading
	StateAttached
	StateSubmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFileSelected:
		return "file_selected"
	case StateCropping:
		return "cropping"
	case StateUploading:
		return "uploading"
	case StateAttached:
		return "attached"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Purpose selects the record kind and the crop aspect ratio.
type Purpose int

const (
	PurposeProject Purpose = iota
	PurposeClient
)

func (p Purpose) Aspect() float64 {
	if p == PurposeClient {
		return utils.AspectClient
	}
	return utils.AspectProject
}

func (p Purpose) String() string {
	if p == PurposeClient {
		return "client"
	}
	return "project"
}

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrImageRequired     = errors.New("image is required")
)

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type Submitter interface {
	AddProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	AddClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error)
}

// Draft holds the form fields. Designation only applies to clients.
type Draft struct {
	Name        string
	Description string
	Designation string
	ImagePath   string
}

type Flow struct {
	mu        sync.Mutex
	purpose   Purpose
	uploader  Uploader
	submitter Submitter
	processor *utils.ImageProcessor
	log       *zap.Logger

	state    State
	filename string
	src      image.Image
	crop     utils.Rect
	draft    Draft
	lastErr  error
	resultID string
}

func NewFlow(purpose Purpose, uploader Uploader, submitter Submitter, processor *utils.ImageProcessor, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{
		purpose:   purpose,
		uploader:  uploader,
		submitter: submitter,
		processor: processor,
		log:       log.With(zap.String("purpose", purpose.String())),
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Flow) Crop() utils.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.crop
}

// Err is the error of the last failed upload or submit, nil after success.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// ResultID is the id of the record created by a successful Submit.
func (f *Flow) ResultID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resultID
}

// SelectFile decodes the picked file. A decode failure leaves the state as is.
func (f *Flow) SelectFile(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateIdle && f.state != StateAttached {
		return f.invalid("select file")
	}

	src, err := f.processor.DecodeImage(data)
	if err != nil {
		f.lastErr = err
		return err
	}
	f.filename = name
	f.src = src
	f.crop = utils.Rect{}
	f.lastErr = nil
	f.state = StateFileSelected
	return nil
}

// OpenCropper seeds the largest centered crop of the purpose's aspect.
func (f *Flow) OpenCropper() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFileSelected {
		return f.invalid("open cropper")
	}
	b := f.src.Bounds()
	f.crop = utils.AreaFromViewport(b.Dx(), b.Dy(), f.purpose.Aspect(), utils.MinZoom, 0, 0)
	f.state = StateCropping
	return nil
}

func (f *Flow) SetViewport(zoom, panX, panY float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateCropping {
		return f.invalid("set viewport")
	}
	b := f.src.Bounds()
	f.crop = utils.AreaFromViewport(b.Dx(), b.Dy(), f.purpose.Aspect(), zoom, panX, panY)
	return nil
}

// SetCrop replaces the crop with an explicit source rectangle.
func (f *Flow) SetCrop(rect utils.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateCropping {
		return f.invalid("set crop")
	}
	clamped, err := rect.Clamp(f.src.Bounds())
	if err != nil {
		return err
	}
	f.crop = clamped
	return nil
}

// Cancel drops the selected file. Nothing is uploaded. A draft that already
// carries an uploaded image goes back to Attached so it stays submittable.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFileSelected && f.state != StateCropping {
		return f.invalid("cancel")
	}
	f.filename = ""
	f.src = nil
	f.crop = utils.Rect{}
	f.state = StateIdle
	if f.draft.ImagePath != "" {
		f.state = StateAttached
	}
	return nil
}

// ConfirmCrop renders the crop and uploads it. The upload ignores the
// caller's cancellation once started. On failure the flow is back in
// Cropping with the same crop so the user can retry.
func (f *Flow) ConfirmCrop(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != StateCropping {
		err := f.invalid("confirm crop")
		f.mu.Unlock()
		return "", err
	}
	src, crop, filename := f.src, f.crop, f.filename
	f.state = StateUploading
	f.mu.Unlock()

	path, err := f.upload(context.WithoutCancel(ctx), src, crop)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastErr = err
		f.state = StateCropping
		f.log.Warn("Upload failed",
			zap.String("file", filename),
			zap.Stringer("crop", crop),
			zap.Error(err))
		return "", err
	}
	f.draft.ImagePath = path
	f.lastErr = nil
	f.src = nil
	f.state = StateAttached
	f.log.Info("Image attached", zap.String("file", filename), zap.String("path", path))
	return path, nil
}

func (f *Flow) upload(ctx context.Context, src image.Image, crop utils.Rect) (string, error) {
	data, err := f.processor.Resolve(src, crop)
	if err != nil {
		return "", err
	}
	return f.uploader.Upload(ctx, utils.CroppedFilename, utils.CroppedContentType, data)
}

func (f *Flow) SetName(name string) error {
	return f.edit(func(d *Draft) { d.Name = name })
}

func (f *Flow) SetDescription(description string) error {
	return f.edit(func(d *Draft) { d.Description = description })
}

func (f *Flow) SetDesignation(designation string) error {
	return f.edit(func(d *Draft) { d.Designation = designation })
}

func (f *Flow) edit(fn func(*Draft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting || f.state == StateDone {
		return f.invalid("edit draft")
	}
	fn(&f.draft)
	return nil
}

// CanSubmit reports whether an image is attached and nothing is in flight.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateAttached && f.draft.ImagePath != ""
}

// Submit creates the record. A failure keeps the draft and the attached
// image so Submit can be called again.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.draft.ImagePath == "" {
		f.mu.Unlock()
		return ErrImageRequired
	}
	if f.state != StateAttached {
		err := f.invalid("submit")
		f.mu.Unlock()
		return err
	}
	draft := f.draft
	f.state = StateSubmitting
	f.mu.Unlock()

	id, err := f.submit(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastErr = err
		f.state = StateAttached
		f.log.Warn("Submit failed", zap.Error(err))
		return err
	}
	f.lastErr = nil
	f.resultID = id
	f.state = StateDone
	f.log.Info("Record created", zap.String("id", id))
	return nil
}

func (f *Flow) submit(ctx context.Context, d Draft) (string, error) {
	name := strings.TrimSpace(d.Name)
	if f.purpose == PurposeClient {
		c, err := f.submitter.AddClient(ctx, domain.ClientInput{
			Name:        name,
			Designation: d.Designation,
			Description: d.Description,
			ImagePath:   d.ImagePath,
		})
		if err != nil {
			return "", err
		}
		return c.ID, nil
	}
	p, err := f.submitter.AddProject(ctx, domain.ProjectInput{
		Name:        name,
		Description: d.Description,
		ImagePath:   d.ImagePath,
	})
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// Reset starts a fresh draft after Done.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateDone {
		return f.invalid("reset")
	}
	f.state = StateIdle
	f.filename = ""
	f.src = nil
	f.crop = utils.Rect{}
	f.draft = Draft{}
	f.lastErr = nil
	f.resultID = ""
	return nil
}

func (f *Flow) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, f.state)
}
