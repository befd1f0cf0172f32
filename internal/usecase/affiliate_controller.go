package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"
	"flightops-bot/pkg/utils"
	"flightops-bot/templates"
)

// AffiliateRequest carries the affiliate_announce options.
type AffiliateRequest struct {
	Name        string
	Description string
	Link        string
	EmbedJSON   string
	RequestedBy string
	GuildID     string
}

// AffiliateController posts partner announcements behind a confirmation gate.
type AffiliateController struct {
	platform    repository.PlatformRepository
	gates       *GateRegistry
	channelID   string
	gateTimeout time.Duration
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewAffiliateController creates a new affiliate controller
func NewAffiliateController(
	platform repository.PlatformRepository,
	gates *GateRegistry,
	channelID string,
	gateTimeout time.Duration,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *AffiliateController {
	return &AffiliateController{
		platform:    platform,
		gates:       gates,
		channelID:   channelID,
		gateTimeout: gateTimeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// RequestAnnouncement validates req and opens the gate guarding the post.
func (c *AffiliateController) RequestAnnouncement(ctx context.Context, req AffiliateRequest) (*ConfirmationGate, error) {
	if c.channelID == "" {
		return nil, entity.NewValidationError("affiliate_channel", "is not configured")
	}

	announcement, err := c.buildAnnouncement(req)
	if err != nil {
		return nil, err
	}

	preview := templates.AffiliateAnnouncement(announcement)
	gate := NewConfirmationGate(GateConfig{
		Prompt: entity.GatePrompt{
			Content:      templates.AffiliatePrompt(announcement),
			Embed:        preview.Embeds[0],
			ConfirmLabel: "Post",
			CancelLabel:  "Cancel",
		},
		OnConfirm: func(ctx context.Context) (GateResult, error) {
			if err := c.Post(ctx, announcement); err != nil {
				return GateResult{}, err
			}
			return GateResult{Content: fmt.Sprintf("Affiliate announcement for **%s** posted.", announcement.Name)}, nil
		},
		OnCancel: func(ctx context.Context, outcome GateOutcome) {
			c.logger.Info("Affiliate announcement discarded",
				"announcementID", announcement.ID,
				"outcome", outcome.String())
		},
		Timeout:       c.gateTimeout,
		AllowedActors: []string{req.RequestedBy},
		Subject:       announcement.ID,
	})
	c.gates.Open(gate)
	return gate, nil
}

// Post sends the announcement to the affiliate channel.
func (c *AffiliateController) Post(ctx context.Context, announcement *entity.AffiliateAnnouncement) error {
	if _, err := c.platform.SendMessage(ctx, c.channelID, templates.AffiliateAnnouncement(announcement)); err != nil {
		c.metrics.PlatformErrors.WithLabelValues("send_message").Inc()
		c.logger.Error("Failed to post affiliate announcement",
			"announcementID", announcement.ID,
			"channelID", c.channelID,
			"error", err)
		return asPlatformError("send_message", err)
	}

	c.logger.Info("Affiliate announcement posted",
		"announcementID", announcement.ID,
		"name", announcement.Name,
		"requestedBy", announcement.RequestedBy)
	return nil
}

func (c *AffiliateController) buildAnnouncement(req AffiliateRequest) (*entity.AffiliateAnnouncement, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entity.NewValidationError("name", "is required")
	}
	link := strings.TrimSpace(req.Link)
	if link != "" && !strings.HasPrefix(link, "https://") && !strings.HasPrefix(link, "http://") {
		return nil, entity.NewValidationError("link", "must be an http(s) URL")
	}

	announcement := &entity.AffiliateAnnouncement{
		ID:          utils.NewID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Link:        link,
		RequestedBy: req.RequestedBy,
		GuildID:     req.GuildID,
	}

	if strings.TrimSpace(req.EmbedJSON) != "" {
		embed, err := entity.ParseEmbedJSON(req.EmbedJSON)
		if err != nil {
			return nil, err
		}
		announcement.Embed = embed
	} else if announcement.Description == "" {
		return nil, entity.NewValidationError("description", "is required without embed_json")
	}
	return announcement, nil
}
