package sessions

import (
	"context"
	"math"
	"sort"

	"github.com/gymtrack/server/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// EvolutionBucket aggregates all sets of one exercise on one day.
type EvolutionBucket struct {
	Date        string  `json:"date"`
	MaxWeight   float64 `json:"maxWeight"`
	TotalVolume float64 `json:"totalVolume"`
	TotalReps   int     `json:"totalReps"`
	Sets        int     `json:"sets"`
	AvgWeight   float64 `json:"avgWeight"`
}

// Progress compares the first and the last training day of an exercise.
// BestSession is the bucket with the highest volume, or an empty object
// when no logs exist.
type Progress struct {
	WeightIncrease float64     `json:"weightIncrease"`
	VolumeIncrease float64     `json:"volumeIncrease"`
	TotalSessions  int         `json:"totalSessions"`
	BestSession    interface{} `json:"bestSession"`
}

type Evolution struct {
	Evolution []EvolutionBucket `json:"evolution"`
	Progress  Progress          `json:"progress"`
	RawLogs   []ExerciseLog     `json:"rawLogs"`
}

type logsLister interface {
	ListLogsByExercise(ctx context.Context, exerciseID int) ([]ExerciseLog, error)
}

type Analyzer struct {
	repo logsLister
}

func NewAnalyzer(repo logsLister) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

func (a *Analyzer) ExerciseEvolution(ctx context.Context, exerciseID int) (_ *Evolution, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.evolution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	logs, err := a.repo.ListLogsByExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	evolution := BuildEvolution(logs)
	span.SetAttributes(attribute.Int("evolution.sessions", evolution.Progress.TotalSessions))

	return evolution, nil
}

// BuildEvolution groups the logs of one exercise per training day and
// derives the progress summary from the first and last days.
func BuildEvolution(logs []ExerciseLog) *Evolution {
	byDate := make(map[string]*EvolutionBucket)
	for _, l := range logs {
		bucket, ok := byDate[l.Date]
		if !ok {
			bucket = &EvolutionBucket{Date: l.Date}
			byDate[l.Date] = bucket
		}
		if l.Weight > bucket.MaxWeight {
			bucket.MaxWeight = l.Weight
		}
		bucket.TotalVolume += l.Weight * float64(l.Reps)
		bucket.TotalReps += l.Reps
		bucket.Sets++
	}

	buckets := make([]EvolutionBucket, 0, len(byDate))
	for _, bucket := range byDate {
		if bucket.TotalReps > 0 {
			bucket.AvgWeight = math.Round(bucket.TotalVolume/float64(bucket.TotalReps)*10) / 10
		}
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})

	progress := Progress{
		TotalSessions: len(buckets),
		BestSession:   struct{}{},
	}
	if len(buckets) > 0 {
		first, last := buckets[0], buckets[len(buckets)-1]
		progress.WeightIncrease = last.MaxWeight - first.MaxWeight
		progress.VolumeIncrease = last.TotalVolume - first.TotalVolume

		best := buckets[0]
		for _, bucket := range buckets[1:] {
			if bucket.TotalVolume > best.TotalVolume {
				best = bucket
			}
		}
		progress.BestSession = best
	}

	return &Evolution{
		Evolution: buckets,
		Progress:  progress,
		RawLogs:   logs,
	}
}
