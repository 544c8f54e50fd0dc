// internal/library/recent.go
package library

import (
	"context"
	stderrors "errors"
	"strings"

	"sahachari/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const (
	RecentLimit     = 10
	recentKeyPrefix = "recent:questions:"
)

// RecentQuestions keeps a per-user list of asked questions, newest first,
// without duplicates and capped at RecentLimit.
type RecentQuestions struct {
	client redis.Cmdable
}

func NewRecentQuestions(client redis.Cmdable) *RecentQuestions {
	return &RecentQuestions{client: client}
}

func RecentKey(userID string) string {
	return recentKeyPrefix + userID
}

// Push moves question to the head of the user's list.
func (q *RecentQuestions) Push(ctx context.Context, userID, question string) error {
	question = strings.TrimSpace(question)
	if userID == "" || question == "" {
		return nil
	}

	key := RecentKey(userID)
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, question)
		pipe.LPush(ctx, key, question)
		pipe.LTrim(ctx, key, 0, RecentLimit-1)
		return nil
	})
	if err != nil {
		return errors.NewCacheError("push recent question", err)
	}
	return nil
}

func (q *RecentQuestions) List(ctx context.Context, userID string) ([]string, error) {
	questions, err := q.client.LRange(ctx, RecentKey(userID), 0, RecentLimit-1).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, errors.NewCacheError("list recent questions", err)
	}
	return questions, nil
}
