package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gametask/internal/domain"
)

const (
	PointsPerTodo = 10
	MaxAward      = 100
	// LatePercent 逾期只给 25%
	LatePercent = 25
)

var (
	scoreEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "gametask", Name: "score_events_total", Help: "Scoring requests by outcome"},
		[]string{"outcome"},
	)
	scoreAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "gametask", Name: "score_exp_awarded_total", Help: "Experience points awarded"},
		[]string{"late"},
	)
)

func init() { prometheus.MustRegister(scoreEvents, scoreAwarded) }

// Award 计算一次计分的经验值：每个子项 10 分，封顶 100，逾期按 25% 向零取整
func Award(todos int, late bool) int64 {
	base := min(todos*PointsPerTodo, MaxAward)
	if base < 0 {
		base = 0
	}
	if late {
		return int64(base * LatePercent / 100)
	}
	return int64(base)
}

// ScoreService 读任务、算分、给主人加经验，在一个事务里完成。
// 同一任务可以重复计分，每次都会累加。
type ScoreService struct {
	store        domain.Store
	profiles     *ProfileCache
	log          *zap.Logger
	requireOwner bool
	now          func() time.Time
}

type ScoreOption func(*ScoreService)

// WithClock 替换当前时间来源
func WithClock(now func() time.Time) ScoreOption {
	return func(s *ScoreService) { s.now = now }
}

// WithRequireOwner 关闭后任何已登录用户都能给别人的任务计分
func WithRequireOwner(v bool) ScoreOption {
	return func(s *ScoreService) { s.requireOwner = v }
}

func NewScoreService(store domain.Store, profiles *ProfileCache, l *zap.Logger, opts ...ScoreOption) *ScoreService {
	if l == nil {
		l = zap.NewNop()
	}
	s := &ScoreService{store: store, profiles: profiles, log: l, requireOwner: true, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Score 返回任务主人更新后的身份投影
func (s *ScoreService) Score(ctx context.Context, requester, taskID string) (*Profile, error) {
	taskID = strings.ToLower(strings.TrimSpace(taskID))
	if err := requireID(taskID); err != nil {
		scoreEvents.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var (
		out     *Profile
		todos   int
		late    bool
		awarded int64
	)
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		task, err := tx.Tasks().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrTaskNotFound
		}
		if s.requireOwner && task.OwnerID != requester {
			return domain.ErrNotTaskOwner
		}

		todos = len(task.Todos)
		late = task.Late(clock(s.now)())
		awarded = Award(todos, late)

		owner, err := tx.Users().AddExperience(ctx, task.OwnerID, awarded)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.ErrUserNotFound
		}
		out, err = loadProfile(ctx, tx, owner.ID)
		return err
	})
	if err != nil {
		s.fail(taskID, requester, err)
		return nil, err
	}

	s.profiles.Put(ctx, out)
	scoreEvents.WithLabelValues("awarded").Inc()
	scoreAwarded.WithLabelValues(strconv.FormatBool(late)).Add(float64(awarded))
	s.log.Info("task scored",
		zap.String("task_id", taskID),
		zap.String("owner_id", out.ID),
		zap.String("requester_id", requester),
		zap.Int("todos", todos),
		zap.Bool("late", late),
		zap.Int64("awarded", awarded),
		zap.Int64("exp", out.Exp),
	)
	return out, nil
}

func (s *ScoreService) fail(taskID, requester string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		scoreEvents.WithLabelValues("timeout").Inc()
		s.log.Warn("score timed out", zap.String("task_id", taskID), zap.String("requester_id", requester))
		return
	}
	de, ok := domain.AsError(err)
	if !ok {
		scoreEvents.WithLabelValues("error").Inc()
		s.log.Error("score failed", zap.String("task_id", taskID), zap.Error(err))
		return
	}
	outcome := "rejected"
	if de.Kind == domain.KindNotFound {
		outcome = "not_found"
	}
	scoreEvents.WithLabelValues(outcome).Inc()
	s.log.Warn("score refused",
		zap.String("task_id", taskID),
		zap.String("requester_id", requester),
		zap.String("reason", de.Msg),
	)
}
