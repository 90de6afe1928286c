package service

import (
	"context"
	"fmt"
	"log/slog"

	"ticketdesk/internal/external"
	"ticketdesk/internal/models"
	"ticketdesk/internal/search"
)

// EventAPI is the event part of the platform API
type EventAPI interface {
	ListEvents(ctx context.Context, q external.EventQuery) (*models.ListEventsResponse, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID string, event models.Event) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// ListQuery filters the public event listing
type ListQuery struct {
	Text     string
	Status   models.EventStatus
	Page     int
	PageSize int
}

// EventService reads events from the discovery index when one is configured
// and writes them through the platform API
type EventService struct {
	api   EventAPI
	index EventIndex
}

func NewEventService(api EventAPI, index EventIndex) *EventService {
	return &EventService{api: api, index: index}
}

func (s *EventService) List(ctx context.Context, q ListQuery) (*models.ListEventsResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	if s.index == nil {
		return s.api.ListEvents(ctx, external.EventQuery{Status: q.Status, Page: q.Page, PageSize: q.PageSize})
	}

	sq := search.Query{Text: q.Text, Status: q.Status, Page: q.Page, PageSize: q.PageSize}
	events, err := s.index.Search(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	total, err := s.index.Count(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	return &models.ListEventsResponse{
		Events:   events,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	if s.index != nil {
		event, err := s.index.GetByID(ctx, eventID)
		if err != nil {
			slog.Warn("Event index lookup failed, using platform API", "event_id", eventID, "error", err)
		} else if event != nil {
			return event, nil
		}
	}
	return s.api.GetEvent(ctx, eventID)
}

func (s *EventService) Create(ctx context.Context, event models.Event) (*models.Event, error) {
	created, err := s.api.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, created)
	return created, nil
}

func (s *EventService) Update(ctx context.Context, eventID string, event models.Event) (*models.Event, error) {
	updated, err := s.api.UpdateEvent(ctx, eventID, event)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, updated)
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, eventID string) error {
	if err := s.api.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.DeleteEvent(ctx, eventID); err != nil {
			slog.Warn("Failed to remove event from index", "event_id", eventID, "error", err)
		}
	}
	return nil
}

// Sync copies every platform event into the discovery index
func (s *EventService) Sync(ctx context.Context, pageSize int) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("event index is not configured")
	}

	if pageSize <= 0 {
		pageSize = 100
	}

	indexed := 0
	previousFirst := ""
	for page := 1; ; page++ {
		resp, err := s.api.ListEvents(ctx, external.EventQuery{Page: page, PageSize: pageSize})
		if err != nil {
			return indexed, err
		}

		// Stop when the platform ignores paging and repeats the first page
		if len(resp.Events) == 0 || resp.Events[0].EventID == previousFirst {
			return indexed, nil
		}
		previousFirst = resp.Events[0].EventID

		for i := range resp.Events {
			if err := s.index.IndexEvent(ctx, &resp.Events[i]); err != nil {
				return indexed, fmt.Errorf("failed to index event %s: %w", resp.Events[i].EventID, err)
			}
			indexed++
		}

		if len(resp.Events) < pageSize {
			return indexed, nil
		}
	}
}

// reindex refreshes the index copy of an event; the platform stays authoritative
func (s *EventService) reindex(ctx context.Context, event *models.Event) {
	if s.index == nil || event == nil || event.EventID == "" {
		return
	}
	if err := s.index.IndexEvent(ctx, event); err != nil {
		slog.Warn("Failed to index event", "event_id", event.EventID, "error", err)
	}
}
