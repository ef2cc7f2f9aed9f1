package constants

import "time"

// Actuation
const (
	ClickMinDelay   = 100 * time.Millisecond // Random sleep before a click (lower bound)
	ClickMaxDelay   = 250 * time.Millisecond // Upper bound; the sleep after a click is doubled
	DragDuration    = 700 * time.Millisecond
	DragSteps       = 100
	ButtonPadding   = 0.1 // Inner padding applied when an element only has a button rect
	ClickSigmaDiv   = 5.0 // Click jitter std deviation = side / ClickSigmaDiv
	KeyPressHold    = 50 * time.Millisecond
	FrameCacheTTL   = 50 * time.Millisecond // Frames are shared for at most one tick
	OCRResizeHeight = 72
)

// Perception
const (
	StringOverlap         = 0.25 // Normalized Levenshtein distance accepted as "similar"
	ColorTolerance        = 0.05 // Normalized RGB distance accepted as "similar"
	ColorDistanceScale    = 510.0
	SSIMWindow            = 7
	DefaultImageThreshold = 0.8
	DefaultTextThreshold  = 150

	// Template search
	LocateTolerance   = 60.0 // Raw RGB distance for one pixel
	LocateMaxFailRate = 0.03 // Share of template pixels allowed to miss
	LocateSlack       = 0.05 // Search margin around the catalogue rect
)

// Guards and waits
const (
	LoadingCircleRetry   = 1 * time.Second
	LoadingCircleTimeout = 30 * time.Second
	WaitPollInterval     = 250 * time.Millisecond
	DefaultWaitTimeout   = 3 * time.Second
	LongWaitTimeout      = 10 * time.Second
)

// Battle
const (
	BattleIdleSleep        = 30 * time.Millisecond
	BattleOverConfirmCount = 3
	BattleOverConfirmGap   = 1 * time.Second
	BattleAnimationTail    = 1 * time.Second
	CharacterSwapWait      = 1100 * time.Millisecond
	CooldownRepetitions    = 3
	CutsceneThresholdShift = 20
	MoveAroundDragDuration = 300 * time.Millisecond
	MoveAroundDragSteps    = 10
	ShifterPollInterval    = 500 * time.Millisecond
)

// CastClickDelays are the pauses after each of the rapid cast clicks on a skill slot.
var CastClickDelays = []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 100 * time.Millisecond}

// Minimum time spent on each cast before the next decision
const (
	CastMinBasic    = 1 * time.Second // Slots 1-3
	CastMinSlot4    = 1500 * time.Millisecond
	CastMinSlot5    = 2 * time.Second
	CastMinUltimate = 6 * time.Second // Tier-3 / Awakening
	CastMinBonus    = 1 * time.Second
)

// Notifications
const (
	NotificationsShortBudget = 3 * time.Second
	NotificationsLongBudget  = 10 * time.Second
)

// Missions
const (
	MainMenuAttempts  = 3
	BoardPages        = 2
	ShifterWaitWindow = 15 * time.Second
)

// Queue
const (
	EnergyPollMin      = 60 * time.Second
	EnergyPollMax      = 120 * time.Second
	DailyResetHour     = 9 // UTC
	StageSelectorSlack = 3
)
