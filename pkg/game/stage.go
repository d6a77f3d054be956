// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

// Stage is the round lifecycle stage of a session.
type Stage int

const (
	// StageWaiting is the lobby stage between rounds.
	StageWaiting Stage = iota
	// StageDistributing is the scoring stage: enrolled players roll.
	StageDistributing
	// StageSelecting is the stage where the minimum scorer picks a
	// punishment category.
	StageSelecting
	// StagePunishing is the stage where the punish set works off a simple
	// punishment.
	StagePunishing
)

func (s Stage) String() string {
	switch s {
	case StageWaiting:
		return "waiting to start"
	case StageDistributing:
		return "scoring in progress"
	case StageSelecting:
		return "selecting punishment"
	case StagePunishing:
		return "punishment in progress"
	}
	return "unknown"
}
