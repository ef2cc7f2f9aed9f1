package ui

import "fmt"

// Battle
const (
	BattleMelee             = "BATTLE_NORMAL_ATTACK"
	BattleWaitingForPlayers = "BATTLE_WAITING_FOR_OTHER_PLAYERS"
	BattleCharacterPortrait = "BATTLE_CHARACTER_PORTRAIT"
	BattleAutoplayToggle    = "BATTLE_AUTOPLAY_TOGGLE"
	BattleDisconnected      = "BATTLE_DISCONNECTED"
	BattleRespawn           = "BATTLE_RESPAWN"
	BattleMissionComplete   = "BATTLE_MISSION_COMPLETE"

	SkipCutscene    = "SKIP_CUTSCENE"
	TapTheScreen    = "SKIP_TAP_THE_SCREEN"
	FrostBeastIntro = "SKIP_FROST_BEAST_INTRO"

	AllyShifter      = "BATTLE_ALLY_SHIFTER_APPEARED"
	EnemyShifter     = "BATTLE_ENEMY_SHIFTER_APPEARED"
	AllyShifterWide  = "BATTLE_ALLY_SHIFTER_APPEARED_WIDE"
	EnemyShifterWide = "BATTLE_ENEMY_SHIFTER_APPEARED_WIDE"

	SkillT3              = "BATTLE_SKILL_T3"
	SkillAwakening       = "BATTLE_SKILL_AWAKENING"
	SkillAwakeningLabel  = "BATTLE_SKILL_AWAKENING_LABEL"
	SkillCoop            = "BATTLE_SKILL_COOP"
	SkillCoopLabel       = "BATTLE_SKILL_COOP_LABEL"
	SkillDangerRoom      = "BATTLE_SKILL_DANGER_ROOM"
	SkillDangerRoomLabel = "BATTLE_SKILL_DANGER_ROOM_LABEL"

	MoveJoystick = "BATTLE_MOVE_JOYSTICK"
	MoveDown     = "BATTLE_MOVE_DOWN"
	MoveLeft     = "BATTLE_MOVE_LEFT"
	MoveUp       = "BATTLE_MOVE_UP"
	MoveRight    = "BATTLE_MOVE_RIGHT"
)

// Guards and notifications
const (
	LoadingCircle         = "LOADING_CIRCLE"
	NetworkError          = "NETWORK_ERROR"
	NetworkErrorReconnect = "NETWORK_ERROR_RECONNECT"

	DailyRewards         = "NOTIFICATION_DAILY_REWARDS"
	LevelUp              = "NOTIFICATION_LEVEL_UP"
	RankUp               = "NOTIFICATION_RANK_UP"
	ChallengeComplete    = "NOTIFICATION_CHALLENGE_COMPLETE"
	SubscriptionSelector = "NOTIFICATION_SUBSCRIPTION_SELECTOR"
	AllianceConquest     = "NOTIFICATION_ALLIANCE_CONQUEST_RESULTS"
	DownloadUpdate       = "NOTIFICATION_DOWNLOAD_UPDATE"
	InventoryFull        = "NOTIFICATION_INVENTORY_FULL"
)

// Menus and missions
const (
	LobbyMenuButton       = "LOBBY_MENU_BUTTON"
	LobbyHomeButton       = "LOBBY_HOME_BUTTON"
	MainMenuLabel         = "MAIN_MENU_LABEL"
	EnergyCounter         = "LOBBY_ENERGY_COUNTER"
	ContentStatusOpen     = "MAIN_MENU_CONTENT_STATUS"
	ContentStatusLabel    = "CONTENT_STATUS_BOARD_LABEL"
	ContentStatusDragFrom = "CONTENT_STATUS_BOARD_DRAG_FROM"
	ContentStatusDragTo   = "CONTENT_STATUS_BOARD_DRAG_TO"

	LobbyStart      = "MISSION_LOBBY_START"
	TeamSelectStart = "MISSION_TEAM_SELECT_START"
	RepeatButton    = "MISSION_REPEAT_BUTTON"
	HomeButton      = "MISSION_HOME_BUTTON"

	EpicQuestStage       = "EPIC_QUEST_STAGE"
	DimensionLevel       = "DIMENSION_MISSION_LEVEL"
	DimensionLevelPlus   = "DIMENSION_MISSION_LEVEL_PLUS"
	DimensionLevelMinus  = "DIMENSION_MISSION_LEVEL_MINUS"
	LegendaryBattleStage = "LEGENDARY_BATTLE_STAGE"
)

// ContentStatusBoardEntries is the number of mode tiles visible on one board page.
const ContentStatusBoardEntries = 12

// Skill returns the element name of base skill slot 1..5.
func Skill(slot int) string { return fmt.Sprintf("BATTLE_SKILL_%d", slot) }

// SkillLabel returns the label element beneath base skill slot 1..5.
func SkillLabel(slot int) string { return fmt.Sprintf("BATTLE_SKILL_%d_LABEL", slot) }

// AdsClose returns the close button of one of the ad layouts, 1..4.
func AdsClose(layout int) string { return fmt.Sprintf("ADS_CLOSE_%d", layout) }

// BoardName, BoardStages and BoardTile address one Content Status Board entry, 1..ContentStatusBoardEntries.
func BoardName(i int) string   { return fmt.Sprintf("CONTENT_STATUS_BOARD_%d_NAME", i) }
func BoardStages(i int) string { return fmt.Sprintf("CONTENT_STATUS_BOARD_%d_STAGES", i) }
func BoardTile(i int) string   { return fmt.Sprintf("CONTENT_STATUS_BOARD_%d", i) }
