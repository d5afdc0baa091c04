// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrTemplateNotFound marks a claimed campaign whose template is missing.
// It is a campaign-level failure, not a recipient-level one.
type ErrTemplateNotFound struct {
	TemplateID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template %q not found", e.TemplateID)
}

func NewTemplateNotFound(id string) error {
	return &ErrTemplateNotFound{TemplateID: id}
}

// ErrTemplateInUse rejects deletion of a template still referenced by a
// campaign that has not reached a terminal status.
type ErrTemplateInUse struct {
	TemplateID string
}

func (e *ErrTemplateInUse) Error() string {
	return fmt.Sprintf("template %q is referenced by an in-flight campaign", e.TemplateID)
}

func NewTemplateInUse(id string) error {
	return &ErrTemplateInUse{TemplateID: id}
}
