package stats

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/campushelp/faqbot/internal/domain/faq"
)

// ValkeyStats keeps the trending counters in a Valkey-compatible database so
// they survive restarts and can be shared across replicas.
type ValkeyStats struct {
	client valkey.Client
	prefix string
}

// NewValkeyStats constructs stats backed by Valkey.
func NewValkeyStats(client valkey.Client, prefix string) *ValkeyStats {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStats{client: client, prefix: prefix}
}

// Increment implements faq.Stats.
func (s *ValkeyStats) Increment(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	if display != "" {
		_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build()).Error()
	}
	return nil
}

// Top implements faq.Stats.
func (s *ValkeyStats) Top(ctx context.Context, limit int) ([]faq.TrendingQuestion, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]faq.TrendingQuestion, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element
			if member, err = tuple[0].ToString(); err != nil {
				if valkey.IsValkeyNil(err) {
					i++
					continue
				}
				return nil, err
			}
			if score, err = tuple[1].ToFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat alternating array.
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				if valkey.IsValkeyNil(err) {
					i += 2
					continue
				}
				return nil, err
			}
			if score, err = arr[i+1].ToFloat64(); err != nil {
				return nil, err
			}
			i += 2
		}
		display := s.fetchDisplay(ctx, member)
		out = append(out, faq.TrendingQuestion{Query: display, Count: int64(score)})
	}
	return out, nil
}

func (s *ValkeyStats) fetchDisplay(ctx context.Context, canonical string) string {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.displayKey(canonical)).Build())
	display, err := resp.ToString()
	if err != nil || display == "" {
		return canonical
	}
	return display
}

func (s *ValkeyStats) trendingKey() string {
	return fmt.Sprintf("%s:trending", s.prefix)
}

func (s *ValkeyStats) displayKey(canonical string) string {
	return fmt.Sprintf("%s:display:%s", s.prefix, canonical)
}

var _ faq.Stats = (*ValkeyStats)(nil)
