package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	SkipCount      int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	skipCount      int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Condition decides whether a system runs this frame.
type Condition func(storage *Storage) bool

// queryExecutor is implemented by Query[T]; the scheduler refreshes each
// query right before its owning system runs.
type queryExecutor interface {
	Execute()
}

type scheduledSystem struct {
	system     System
	conditions []Condition
	queries    []queryExecutor
}

// Scheduler manages and executes systems in order.
type Scheduler struct {
	storage     *Storage
	systems     []*scheduledSystem
	systemStats []*systemStatsInternal
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
		systems: make([]*scheduledSystem, 0),
	}
}

// Register adds a system to the scheduler and initializes its Query fields.
func (s *Scheduler) Register(system System) {
	s.RegisterIf(system)
}

// RegisterIf adds a system that only runs on frames where every condition
// holds.
func (s *Scheduler) RegisterIf(system System, conditions ...Condition) {
	s.systems = append(s.systems, &scheduledSystem{
		system:     system,
		conditions: conditions,
		queries:    s.initializeFields(system),
	})

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	name := systemType.Name()
	// Generic systems carry their full type arguments in the name.
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// initializeFields wires the Query, Singleton and EventReader fields of a
// system struct to the scheduler's storage and returns its queries.
func (s *Scheduler) initializeFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()
	var queries []queryExecutor

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()

		var kind string
		switch {
		case strings.HasPrefix(typeName, "Query["):
			kind = "Query"
		case strings.HasPrefix(typeName, "Singleton["):
			kind = "Singleton"
		case strings.HasPrefix(typeName, "EventReader["):
			kind = "EventReader"
		default:
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on " + kind + " field: " + fieldType.Name)
		}

		initMethod.Call([]reflect.Value{
			reflect.ValueOf(s.storage),
		})

		if kind == "Query" {
			queries = append(queries, field.Addr().Interface().(queryExecutor))
		}
	}

	return queries
}

// PreparedSystem is a system wired to a storage but run on demand rather
// than every frame, such as a startup or state-transition system.
type PreparedSystem struct {
	entry *scheduledSystem
}

// Prepare initializes a system's fields without adding it to the frame list.
func (s *Scheduler) Prepare(system System) *PreparedSystem {
	return &PreparedSystem{entry: &scheduledSystem{
		system:  system,
		queries: s.initializeFields(system),
	}}
}

// Run refreshes the system's queries and executes it on the given frame. The
// caller flushes the frame commands.
func (p *PreparedSystem) Run(frame *UpdateFrame) {
	for _, q := range p.entry.queries {
		q.Execute()
	}
	p.entry.system.Execute(frame)
}

// Once executes all registered systems once with the given delta time.
func (s *Scheduler) Once(dt float64) {
	frame := NewUpdateFrame(dt, s.storage)
	s.RunFrame(frame)
	frame.Commands.Flush(s.storage)
}

// RunFrame executes the registered systems against an existing frame without
// flushing it.
func (s *Scheduler) RunFrame(frame *UpdateFrame) {
	for i, entry := range s.systems {
		stats := s.systemStats[i]

		if !entry.shouldRun(s.storage) {
			stats.skipCount++
			continue
		}

		start := time.Now()
		for _, q := range entry.queries {
			q.Execute()
		}
		entry.system.Execute(frame)
		duration := time.Since(start)

		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}
}

func (e *scheduledSystem) shouldRun(storage *Storage) bool {
	for _, cond := range e.conditions {
		if !cond(storage) {
			return false
		}
	}
	return true
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			SkipCount:      internal.skipCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
