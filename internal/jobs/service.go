package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"localhire/matching-service/internal/dates"
	"localhire/matching-service/internal/model"
	"localhire/matching-service/internal/store"
)

// Service owns job-posting mutations. All multi-document writes go through
// store.Transact so no reader ever sees a half-applied hire.
type Service struct {
	store store.Store
	rdb   *redis.Client // optional event publishing, may be nil
}

// NewService returns a configured Service. rdb may be nil; events are then
// simply not published.
func NewService(s store.Store, rdb *redis.Client) *Service {
	return &Service{store: s, rdb: rdb}
}

// AcceptApplicant consumes one open slot on a posting for the given
// worker: no_of_users decreases and users_hired increases by exactly one,
// atomically, together with the worker's acceptedJobs entry. Fails with
// ErrNoAvailablePositions when the posting has no slots left — callers
// must not retry; the listing is full.
func (s *Service) AcceptApplicant(ctx context.Context, workerID, jobID string) (*model.JobPosting, error) {
	var accepted model.JobPosting

	err := s.store.Transact(ctx, store.JobPath(jobID), func(current []byte) ([]store.Write, error) {
		if current == nil {
			return nil, ErrNotFound
		}

		var job model.JobPosting
		if err := json.Unmarshal(current, &job); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", jobID, err)
		}
		job.JobID = jobID

		slots := job.Slots()
		if slots <= 0 {
			return nil, ErrNoAvailablePositions
		}

		slots--
		job.OpenSlots = &slots
		job.UsersHired++
		if IsTransitionAllowed(job.Status, model.StatusAccepted) {
			job.Status = model.StatusAccepted
		}

		jobDoc, err := json.Marshal(job)
		if err != nil {
			return nil, fmt.Errorf("encode job %s: %w", jobID, err)
		}

		accepted = job
		return []store.Write{
			{Path: store.JobPath(jobID), Doc: jobDoc},
			{Path: store.AcceptedJobPath(workerID, jobID), Doc: []byte("true")},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "EVENT_JOB_ACCEPTED", map[string]string{
		"jobId":    jobID,
		"workerId": workerID,
	})
	return &accepted, nil
}

// PostJob validates a draft posting, assigns it a collision-resistant id,
// and writes the job document together with the poster's JobsPosted entry
// in one atomic update. Direct-hire postings additionally route a
// notification with active accept/reject buttons to the targeted worker.
func (s *Service) PostJob(ctx context.Context, posterID, receiverID string, draft model.JobPosting) (*model.JobPosting, error) {
	if strings.TrimSpace(draft.JobType) == "" {
		return nil, &ValidationError{Msg: "job_type is required"}
	}
	if draft.Budget < 0 {
		return nil, &ValidationError{Msg: "budget must not be negative"}
	}
	if _, ok := dates.ParseDisplayDate(draft.Date); !ok {
		return nil, &ValidationError{Msg: fmt.Sprintf("date %q is not in dd/mm/yyyy form", draft.Date)}
	}
	if draft.Type == model.DirectHire && receiverID == "" {
		return nil, &ValidationError{Msg: "direct-hire postings need a receiver"}
	}

	job := draft
	job.JobID = NewJobID(posterID)
	job.SenderUID = posterID
	job.Status = model.StatusOpen
	job.CreatedAt = time.Now().UnixMilli()
	if job.OpenSlots == nil {
		one := 1
		job.OpenSlots = &one
	}

	jobDoc, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	writes := []store.Write{
		{Path: store.JobPath(job.JobID), Doc: jobDoc},
		{Path: store.JobsPostedPath(posterID, job.JobID), Doc: []byte("true")},
	}

	if job.Type == model.DirectHire {
		note := model.Notification{
			JobID:     job.JobID,
			JobType:   job.JobType,
			Location:  job.Location,
			Date:      job.Date,
			Type:      model.DirectHire,
			From:      posterID,
			BtnActive: true,
			CreatedAt: job.CreatedAt,
		}
		noteDoc, err := json.Marshal(note)
		if err != nil {
			return nil, fmt.Errorf("encode notification: %w", err)
		}
		writes = append(writes, store.Write{Path: store.NotificationPath(receiverID, job.JobID), Doc: noteDoc})
	}

	err = s.store.Transact(ctx, store.JobPath(job.JobID), func(current []byte) ([]store.Write, error) {
		if current != nil {
			// id collision — uid + millis + random suffix makes this
			// practically unreachable
			return nil, fmt.Errorf("job id %s already exists", job.JobID)
		}
		return writes, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "EVENT_JOB_POSTED", map[string]string{
		"jobId":    job.JobID,
		"posterId": posterID,
		"type":     job.Type.String(),
	})
	return &job, nil
}

// Apply records a worker's application to an open listing by routing an
// informational notification to the poster. The slot is only consumed
// later, when the poster accepts via AcceptApplicant.
func (s *Service) Apply(ctx context.Context, workerID, jobID string) error {
	doc, err := s.store.Get(ctx, store.JobPath(jobID))
	if err != nil {
		return err
	}
	var job model.JobPosting
	if err := json.Unmarshal(doc, &job); err != nil {
		return fmt.Errorf("decode job %s: %w", jobID, err)
	}
	if job.Type != model.OpenListing {
		return &ValidationError{Msg: "only open listings accept applications"}
	}
	if job.SenderUID == "" {
		return fmt.Errorf("job %s has no poster", jobID)
	}

	note := model.Notification{
		JobID:     jobID,
		JobType:   job.JobType,
		Location:  job.Location,
		Date:      job.Date,
		Type:      model.OpenListing,
		From:      workerID,
		BtnActive: false,
		CreatedAt: time.Now().UnixMilli(),
	}
	noteDoc, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := s.store.Set(ctx, store.NotificationPath(job.SenderUID, jobID), noteDoc); err != nil {
		return err
	}

	s.publish(ctx, "EVENT_JOB_APPLIED", map[string]string{
		"jobId":    jobID,
		"workerId": workerID,
		"posterId": job.SenderUID,
	})
	return nil
}

// NewJobID builds a collision-resistant job id from the poster id, the
// current epoch milliseconds, and a short random suffix.
func NewJobID(posterID string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%d_%s", posterID, time.Now().UnixMilli(), suffix)
}

// publish sends a marketplace event for downstream consumers (non-fatal).
func (s *Service) publish(ctx context.Context, channel string, payload map[string]string) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(payload)
	if err := s.rdb.Publish(ctx, channel, event).Err(); err != nil {
		slog.Warn("publish failed", "channel", channel, "err", err)
	}
}
