// internal/service/dispatch_service.go
package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/unclebandit/phishsim-backend/internal/delivery"
	appErrors "github.com/unclebandit/phishsim-backend/internal/errors"
	"github.com/unclebandit/phishsim-backend/internal/metrics"
	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/repository"
)

// Text wrapped around labelled campaigns and used when no display name can
// be resolved for a recipient.
const (
	disclaimerHeader   = "**Simulated Message**\n"
	disclaimerFooter   = "\n\n*(This is a simulated phishing message for consenting users only.)*"
	fallbackName       = "friend"
	defaultSendTimeout = 10 * time.Second
)

// DispatchService claims pending campaigns and delivers their messages. One
// Tick processes at most one campaign, which bounds work per invocation.
type DispatchService struct {
	Campaigns repository.CampaignRepositoryInterface
	Templates repository.TemplateRepositoryInterface
	Consents  repository.ConsentRepositoryInterface
	Channel   delivery.Channel

	// BaseURL is the public web base simulation links point at.
	BaseURL string
	// DefaultTarget is the broadcast delivery target.
	DefaultTarget string
	// SendTimeout bounds each delivery call so one unresponsive recipient
	// cannot stall the tick.
	SendTimeout time.Duration

	Log zerolog.Logger
}

// RecipientOutcome is the per-recipient result of one campaign dispatch.
// Failed sends are not retried here; callers wanting retry get the full
// outcome list and can implement it externally.
type RecipientOutcome struct {
	RecipientID string
	Sent        bool
	Err         error
}

type DispatchResult struct {
	CampaignID int
	Status     string
	Attempted  int
	Succeeded  int
	Outcomes   []RecipientOutcome
}

// Tick claims and processes at most one campaign. It returns (nil, nil) when
// no pending campaign exists.
func (s *DispatchService) Tick(ctx context.Context) (*DispatchResult, error) {
	metrics.DispatchTicks.Inc()

	campaign, err := s.Campaigns.ClaimNextPending()
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, nil // no-op tick
	}
	metrics.CampaignsClaimed.Inc()

	log := s.Log.With().Int("campaign_id", campaign.ID).Str("mode", campaign.Mode).Logger()
	log.Info().Str("name", campaign.Name).Msg("claimed campaign")

	tmpl, err := s.resolveTemplate(campaign)
	if err != nil {
		// Template missing (or unreadable) is a campaign-level failure: the
		// campaign goes terminal with nothing sent.
		log.Error().Err(err).Str("template_id", campaign.TemplateID).Msg("campaign failed to resolve")
		if markErr := s.Campaigns.MarkFailed(campaign.ID); markErr != nil {
			return nil, markErr
		}
		metrics.CampaignsFinalized.WithLabelValues(model.StatusFailed).Inc()
		return &DispatchResult{CampaignID: campaign.ID, Status: model.StatusFailed}, nil
	}

	recipients, err := s.resolveRecipients(campaign)
	if err != nil {
		log.Error().Err(err).Msg("campaign failed to resolve recipients")
		if markErr := s.Campaigns.MarkFailed(campaign.ID); markErr != nil {
			return nil, markErr
		}
		metrics.CampaignsFinalized.WithLabelValues(model.StatusFailed).Inc()
		return &DispatchResult{CampaignID: campaign.ID, Status: model.StatusFailed}, nil
	}

	result := &DispatchResult{CampaignID: campaign.ID, Status: model.StatusSent}
	for _, recipient := range recipients {
		outcome := RecipientOutcome{RecipientID: recipient}
		result.Attempted++
		metrics.MessagesAttempted.Inc()

		// One recipient's failure never aborts the rest of the batch.
		if err := s.sendOne(ctx, campaign, tmpl, recipient); err != nil {
			outcome.Err = err
			metrics.MessagesFailed.Inc()
			log.Warn().Err(err).Str("recipient_id", recipient).Msg("send failed")
		} else {
			outcome.Sent = true
			result.Succeeded++
			metrics.MessagesSent.Inc()
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	// Sent means "the attempt was made", even if every individual send failed.
	if err := s.Campaigns.MarkSent(campaign.ID); err != nil {
		return result, err
	}
	metrics.CampaignsFinalized.WithLabelValues(model.StatusSent).Inc()

	log.Info().
		Int("attempted", result.Attempted).
		Int("succeeded", result.Succeeded).
		Msg("campaign dispatched")
	return result, nil
}

func (s *DispatchService) resolveTemplate(campaign *model.Campaign) (*model.Template, error) {
	tmpl, err := s.Templates.GetByID(campaign.TemplateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, appErrors.NewTemplateNotFound(campaign.TemplateID)
	}
	return tmpl, nil
}

func (s *DispatchService) resolveRecipients(campaign *model.Campaign) ([]string, error) {
	if campaign.Mode == model.ModeBroadcast {
		return []string{s.DefaultTarget}, nil
	}
	return s.Consents.ListEligible()
}

func (s *DispatchService) sendOne(ctx context.Context, campaign *model.Campaign, tmpl *model.Template, recipient string) error {
	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	simID := strconv.Itoa(campaign.ID)

	if campaign.Mode == model.ModeBroadcast {
		link := s.BaseURL + "/l/" + simID
		text := ResolveTemplate(tmpl.Body, link, fallbackName)
		if campaign.Labelled {
			text = disclaimerHeader + text + disclaimerFooter
		}
		return s.Channel.SendToChannel(sendCtx, recipient, text)
	}

	// Direct mode: the link carries the recipient id for click correlation.
	link := s.BaseURL + "/l/" + simID + "?u=" + url.QueryEscape(recipient)
	name, err := s.Channel.ResolveRecipientDisplayName(sendCtx, recipient)
	if err != nil || name == "" {
		name = fallbackName
	}
	text := ResolveTemplate(tmpl.Body, link, name)
	if campaign.Labelled {
		text = disclaimerHeader + text + disclaimerFooter
	}
	return s.Channel.SendDirect(sendCtx, recipient, text)
}
