package socialflow

import (
	"context"
	"time"

	"github.com/humanosaude/portal/internal/store"
)

type ScheduledPosts interface {
	ListScheduled(ctx context.Context, userID string) ([]store.SocialPost, error)
	Reschedule(ctx context.Context, id string, at time.Time) (*store.SocialPost, error)
	Cancel(ctx context.Context, id string) (bool, error)
}

// Scheduler manages the queue of scheduled posts. It does no conflict
// detection; the last write wins.
type Scheduler struct {
	posts ScheduledPosts
}

func NewScheduler(posts ScheduledPosts) *Scheduler {
	return &Scheduler{posts: posts}
}

func (s *Scheduler) Scheduled(ctx context.Context, userID string) ([]store.SocialPost, error) {
	return s.posts.ListScheduled(ctx, userID)
}

type ScheduleResult struct {
	Success      bool      `json:"success"`
	PostID       string    `json:"postId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func (s *Scheduler) Reschedule(ctx context.Context, postID string, at time.Time) (ScheduleResult, error) {
	post, err := s.posts.Reschedule(ctx, postID, at.UTC())
	if err != nil {
		return ScheduleResult{}, err
	}
	return ScheduleResult{Success: true, PostID: post.ID, ScheduledFor: *post.ScheduledFor}, nil
}

// Unschedule cancels a scheduled post, reporting false when it was not
// scheduled.
func (s *Scheduler) Unschedule(ctx context.Context, postID string) (bool, error) {
	return s.posts.Cancel(ctx, postID)
}
