package ui

import (
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/vision"
)

const (
	digits     = "0123456789"
	stageChars = "0123456789/"
	percent    = "0123456789.%"
)

// Elements returns the built-in element table.
func Elements() []Element {
	var all []Element
	all = append(all, battleElements()...)
	all = append(all, skillElements()...)
	all = append(all, notificationElements()...)
	all = append(all, menuElements()...)
	all = append(all, boardElements()...)
	return all
}

func rgb(r, g, b uint8) *vision.RGB { return &vision.RGB{R: r, G: g, B: b} }

func battleElements() []Element {
	return []Element{
		{
			Name:           BattleMelee,
			Description:    "Normal attack button, present only while controlling a character.",
			ImageRect:      geom.R(0.8547, 0.7328, 0.9422, 0.8881),
			ImageFile:      "battle_normal_attack.png",
			ImageThreshold: 0.7,
			ButtonRect:     geom.R(0.8547, 0.7328, 0.9422, 0.8881),
		},
		{
			Name:          BattleWaitingForPlayers,
			Description:   "Co-op lobby overlay shown before every player has loaded.",
			TextRect:      geom.R(0.3172, 0.4317, 0.6828, 0.4963),
			Text:          "WAITING FOR OTHER PLAYERS",
			TextThreshold: 150,
		},
		{
			Name:           BattleCharacterPortrait,
			Description:    "Portrait of the controlled character; used as a signature to detect a swap.",
			ImageRect:      geom.R(0.0125, 0.0182, 0.0734, 0.1237),
			ImageThreshold: 0.7,
		},
		{
			Name:           BattleAutoplayToggle,
			Description:    "Autoplay toggle in its active state.",
			ImageRect:      geom.R(0.0219, 0.7383, 0.0813, 0.8464),
			ImageFile:      "battle_autoplay_on.png",
			ImageThreshold: 0.9,
			ButtonRect:     geom.R(0.0219, 0.7383, 0.0813, 0.8464),
		},
		{
			Name:          BattleDisconnected,
			Description:   "Co-op disconnect modal.",
			TextRect:      geom.R(0.3578, 0.3633, 0.6422, 0.4232),
			Text:          "DISCONNECTED",
			TextThreshold: 160,
			ButtonRect:    geom.R(0.4367, 0.6133, 0.5633, 0.6758),
		},
		{
			Name:          BattleRespawn,
			Description:   "Respawn prompt after the whole team fell.",
			TextRect:      geom.R(0.4203, 0.2656, 0.5797, 0.3255),
			Text:          "REVIVE",
			TextThreshold: 150,
		},
		{
			Name:          BattleMissionComplete,
			Description:   "Score screen header.",
			TextRect:      geom.R(0.3453, 0.0599, 0.6547, 0.1328),
			Text:          "MISSION COMPLETE",
			TextThreshold: 170,
		},
		{
			Name:          SkipCutscene,
			TextRect:      geom.R(0.8969, 0.0443, 0.9547, 0.0846),
			Text:          "SKIP",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.8828, 0.0339, 0.9719, 0.0951),
		},
		{
			Name:                  TapTheScreen,
			Description:           "Cutscene prompt; it fades in and out so probes use copies at +-20.",
			TextRect:              geom.R(0.4109, 0.8893, 0.5891, 0.9349),
			Text:                  "TAP THE SCREEN",
			TextThreshold:         160,
			TesseractResizeHeight: 48,
			ButtonRect:            geom.R(0.3, 0.5, 0.7, 0.8),
		},
		{
			Name:          FrostBeastIntro,
			TextRect:      geom.R(0.0453, 0.7969, 0.2344, 0.8477),
			Text:          "FROST BEAST",
			TextThreshold: 140,
			ButtonRect:    geom.R(0.3, 0.5, 0.7, 0.8),
		},
		{
			Name:          AllyShifter,
			TextRect:      geom.R(0.3453, 0.2487, 0.6547, 0.2995),
			Text:          "ALLY SHIFTER APPEARED",
			TextThreshold: 150,
		},
		{
			Name:          EnemyShifter,
			TextRect:      geom.R(0.3453, 0.2487, 0.6547, 0.2995),
			Text:          "ENEMY SHIFTER APPEARED",
			TextThreshold: 150,
		},
		{
			Name:          AllyShifterWide,
			TextRect:      geom.R(0.3125, 0.3841, 0.6875, 0.4414),
			Text:          "ALLY SHIFTER APPEARED",
			TextThreshold: 150,
		},
		{
			Name:          EnemyShifterWide,
			TextRect:      geom.R(0.3125, 0.3841, 0.6875, 0.4414),
			Text:          "ENEMY SHIFTER APPEARED",
			TextThreshold: 150,
		},
		{Name: MoveJoystick, ButtonRect: geom.R(0.1297, 0.6784, 0.1453, 0.7018)},
		{Name: MoveDown, ButtonRect: geom.R(0.1297, 0.7669, 0.1453, 0.7903)},
		{Name: MoveLeft, ButtonRect: geom.R(0.0797, 0.6784, 0.0953, 0.7018)},
		{Name: MoveUp, ButtonRect: geom.R(0.1297, 0.5898, 0.1453, 0.6133)},
		{Name: MoveRight, ButtonRect: geom.R(0.1797, 0.6784, 0.1953, 0.7018)},
	}
}

// skillBar is the strip holding every skill slot; slot rects are nested inside it.
var skillBar = geom.R(0.5594, 0.7813, 0.8500, 0.9766)

func skillElements() []Element {
	slots := []geom.Rect{
		geom.R(0.0000, 0.40, 0.1800, 1.00),
		geom.R(0.2000, 0.40, 0.3800, 1.00),
		geom.R(0.4000, 0.40, 0.5800, 1.00),
		geom.R(0.6000, 0.40, 0.7800, 1.00),
		geom.R(0.8000, 0.40, 0.9800, 1.00),
	}
	var els []Element
	for i, r := range slots {
		slot := r.Within(skillBar)
		els = append(els, Element{
			Name:                Skill(i + 1),
			ImageRect:           slot,
			ImageThreshold:      0.9,
			TextRect:            geom.R(0.25, 0.25, 0.75, 0.75).Within(slot),
			AvailableCharacters: digits,
			TextThreshold:       200,
			ButtonRect:          slot,
		})
	}
	for _, i := range []int{4, 5} {
		els = append(els, Element{
			Name:           SkillLabel(i),
			Description:    "Level plate under the skill; absent when the character has no such slot.",
			ImageRect:      geom.R(0.05, 0.0, 0.95, 0.35).Within(slots[i-1].Within(skillBar)),
			ImageFile:      "battle_skill_label.png",
			ImageThreshold: 0.6,
		})
	}

	special := geom.R(0.4922, 0.6094, 0.5719, 0.7500)
	els = append(els,
		Element{
			Name:                SkillT3,
			Description:         "Tier-3 slot; its overlay reads as a charge percentage.",
			ImageRect:           special,
			ImageThreshold:      0.9,
			TextRect:            geom.R(0.10, 0.70, 0.90, 1.00).Within(special),
			AvailableCharacters: percent,
			TextThreshold:       150,
			ButtonRect:          special,
		},
		Element{
			Name:                SkillAwakening,
			ImageRect:           special,
			ImageThreshold:      0.9,
			TextRect:            geom.R(0.25, 0.25, 0.75, 0.75).Within(special),
			AvailableCharacters: digits,
			TextThreshold:       200,
			ButtonRect:          special,
		},
		Element{
			Name:           SkillAwakeningLabel,
			ImageRect:      geom.R(0.10, -0.25, 0.90, 0.0).Within(special),
			ImageFile:      "battle_skill_awakening_label.png",
			ImageThreshold: 0.7,
		},
	)

	bonus := geom.R(0.4031, 0.6354, 0.4703, 0.7513)
	cooldown := geom.R(0.25, 0.25, 0.75, 0.75).Within(bonus)
	els = append(els,
		Element{
			Name:                SkillCoop,
			ImageRect:           bonus,
			ImageThreshold:      0.9,
			TextRect:            cooldown,
			AvailableCharacters: digits,
			TextThreshold:       200,
			ButtonRect:          bonus,
		},
		Element{
			Name:          SkillCoopLabel,
			TextRect:      geom.R(-0.10, 1.00, 1.10, 1.25).Within(bonus),
			Text:          "CO-OP",
			TextThreshold: 150,
		},
		Element{
			Name:                SkillDangerRoom,
			ImageRect:           bonus,
			ImageThreshold:      0.9,
			TextRect:            cooldown,
			AvailableCharacters: digits,
			TextThreshold:       200,
			ButtonRect:          bonus,
		},
		Element{
			Name:          SkillDangerRoomLabel,
			TextRect:      geom.R(-0.30, 1.00, 1.30, 1.25).Within(bonus),
			Text:          "DANGER ROOM",
			TextThreshold: 150,
		},
	)
	return els
}

func notificationElements() []Element {
	els := []Element{
		{
			Name:        LoadingCircle,
			Description: "Orange spinner arc; sampled at fixed points.",
			ImageColor:  rgb(243, 120, 28),
			ColorRects: []geom.Rect{
				geom.R(0.9531, 0.9023, 0.9547, 0.9049),
				geom.R(0.9617, 0.9141, 0.9633, 0.9167),
				geom.R(0.9695, 0.9310, 0.9711, 0.9336),
				geom.R(0.9734, 0.9505, 0.9750, 0.9531),
			},
		},
		{
			Name:          NetworkError,
			TextRect:      geom.R(0.3906, 0.3125, 0.6094, 0.3633),
			Text:          "NETWORK ERROR",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.4375, 0.6211, 0.5625, 0.6797),
		},
		{
			Name:          NetworkErrorReconnect,
			TextRect:      geom.R(0.3594, 0.4167, 0.6406, 0.4661),
			Text:          "CONNECTION LOST",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.5156, 0.6302, 0.6406, 0.6888),
		},
		{
			Name:          DailyRewards,
			TextRect:      geom.R(0.3672, 0.0846, 0.6328, 0.1406),
			Text:          "DAILY REWARDS",
			TextThreshold: 160,
			ButtonRect:    geom.R(0.9234, 0.0547, 0.9703, 0.1198),
		},
		{
			Name:          LevelUp,
			TextRect:      geom.R(0.4000, 0.1432, 0.6000, 0.2083),
			Text:          "LEVEL UP",
			TextThreshold: 170,
			ButtonRect:    geom.R(0.4375, 0.8242, 0.5625, 0.8828),
		},
		{
			Name:          RankUp,
			TextRect:      geom.R(0.4000, 0.1432, 0.6000, 0.2083),
			Text:          "RANK UP",
			TextThreshold: 170,
			ButtonRect:    geom.R(0.4375, 0.8242, 0.5625, 0.8828),
		},
		{
			Name:          ChallengeComplete,
			TextRect:      geom.R(0.3438, 0.2214, 0.6563, 0.2773),
			Text:          "CHALLENGE COMPLETE",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.4375, 0.7422, 0.5625, 0.8008),
		},
		{
			Name:          SubscriptionSelector,
			TextRect:      geom.R(0.3203, 0.1055, 0.6797, 0.1589),
			Text:          "SELECT SUBSCRIPTION",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.9234, 0.0547, 0.9703, 0.1198),
		},
		{
			Name:          AllianceConquest,
			TextRect:      geom.R(0.3047, 0.0846, 0.6953, 0.1406),
			Text:          "ALLIANCE CONQUEST RESULTS",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.4375, 0.8633, 0.5625, 0.9219),
		},
		{
			Name:          DownloadUpdate,
			TextRect:      geom.R(0.3594, 0.3320, 0.6406, 0.3815),
			Text:          "DOWNLOAD",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.3594, 0.6302, 0.4844, 0.6888),
		},
		{
			Name:          InventoryFull,
			TextRect:      geom.R(0.3594, 0.3633, 0.6406, 0.4141),
			Text:          "INVENTORY FULL",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.4375, 0.6211, 0.5625, 0.6797),
		},
	}
	closeButtons := []geom.Rect{
		geom.R(0.9297, 0.0365, 0.9688, 0.1016),
		geom.R(0.8984, 0.1042, 0.9375, 0.1693),
		geom.R(0.8516, 0.1432, 0.8906, 0.2083),
		geom.R(0.0313, 0.0365, 0.0703, 0.1016),
	}
	for i, r := range closeButtons {
		els = append(els, Element{
			Name:           AdsClose(i + 1),
			ImageRect:      r,
			ImageFile:      "ads_close.png",
			ImageThreshold: 0.75,
			ButtonRect:     r,
		})
	}
	return els
}

func menuElements() []Element {
	return []Element{
		{
			Name:           LobbyMenuButton,
			ImageRect:      geom.R(0.9359, 0.0130, 0.9875, 0.0885),
			ImageFile:      "lobby_menu.png",
			ImageThreshold: 0.8,
			ButtonRect:     geom.R(0.9359, 0.0130, 0.9875, 0.0885),
		},
		{Name: LobbyHomeButton, ButtonRect: geom.R(0.8828, 0.0130, 0.9297, 0.0885)},
		{
			Name:          MainMenuLabel,
			TextRect:      geom.R(0.0469, 0.0326, 0.1875, 0.0794),
			Text:          "MAIN MENU",
			TextThreshold: 150,
		},
		{
			Name:                EnergyCounter,
			TextRect:            geom.R(0.5922, 0.0299, 0.6797, 0.0638),
			AvailableCharacters: stageChars,
			TextThreshold:       150,
		},
		{
			Name:          ContentStatusOpen,
			TextRect:      geom.R(0.1016, 0.7070, 0.2344, 0.7487),
			Text:          "CONTENT STATUS",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.0781, 0.6354, 0.2578, 0.7552),
		},
		{
			Name:          ContentStatusLabel,
			TextRect:      geom.R(0.0469, 0.0326, 0.3125, 0.0794),
			Text:          "CONTENT STATUS BOARD",
			TextThreshold: 150,
		},
		{Name: ContentStatusDragFrom, ButtonRect: geom.R(0.8594, 0.5, 0.8750, 0.52)},
		{Name: ContentStatusDragTo, ButtonRect: geom.R(0.1250, 0.5, 0.1406, 0.52)},
		{
			Name:          LobbyStart,
			TextRect:      geom.R(0.8438, 0.8867, 0.9453, 0.9414),
			Text:          "START",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.8203, 0.8711, 0.9688, 0.9570),
		},
		{
			Name:          TeamSelectStart,
			TextRect:      geom.R(0.8516, 0.8906, 0.9375, 0.9401),
			Text:          "START",
			TextThreshold: 120,
			ButtonRect:    geom.R(0.8281, 0.8711, 0.9609, 0.9570),
		},
		{
			Name:          RepeatButton,
			TextRect:      geom.R(0.8359, 0.8906, 0.9297, 0.9401),
			Text:          "REPEAT",
			TextThreshold: 150,
			ButtonRect:    geom.R(0.8125, 0.8711, 0.9609, 0.9570),
		},
		{
			Name:           HomeButton,
			ImageRect:      geom.R(0.7266, 0.8711, 0.7891, 0.9570),
			ImageFile:      "mission_home.png",
			ImageThreshold: 0.8,
			ButtonRect:     geom.R(0.7266, 0.8711, 0.7891, 0.9570),
		},
		{
			Name:       EpicQuestStage,
			ButtonRect: geom.R(0.4531, 0.4557, 0.5469, 0.5443),
		},
		{
			Name:       LegendaryBattleStage,
			ButtonRect: geom.R(0.1172, 0.3385, 0.3047, 0.6745),
		},
		{
			Name:                DimensionLevel,
			TextRect:            geom.R(0.4766, 0.7578, 0.5234, 0.7995),
			AvailableCharacters: digits,
			TextThreshold:       150,
		},
		{Name: DimensionLevelPlus, ButtonRect: geom.R(0.5469, 0.7552, 0.5781, 0.8021)},
		{Name: DimensionLevelMinus, ButtonRect: geom.R(0.4219, 0.7552, 0.4531, 0.8021)},
	}
}

// board lays the Content Status Board out as a 4x3 grid of tiles.
var board = geom.R(0.0469, 0.1563, 0.9531, 0.9219)

func boardElements() []Element {
	var els []Element
	for i := 0; i < ContentStatusBoardEntries; i++ {
		col, row := float64(i%4), float64(i/4)
		tile := geom.R(col*0.25+0.01, row/3+0.01, (col+1)*0.25-0.01, (row+1)/3-0.01).Within(board)
		els = append(els,
			Element{Name: BoardTile(i + 1), ButtonRect: tile},
			Element{
				Name:          BoardName(i + 1),
				TextRect:      geom.R(0.05, 0.05, 0.95, 0.30).Within(tile),
				TextThreshold: 150,
			},
			Element{
				Name:                BoardStages(i + 1),
				TextRect:            geom.R(0.55, 0.75, 0.95, 0.95).Within(tile),
				AvailableCharacters: stageChars,
				TextThreshold:       150,
			},
		)
	}
	return els
}
