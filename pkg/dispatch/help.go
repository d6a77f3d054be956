// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package dispatch

const helpText = `Point duel commands:
partyduel - join the game (or leave it if already enrolled)
join / leave - same, for players already in game mode
start - start scoring (waiting stage only)
roll - draw your score for this round
remind - mention players who have not rolled
skip - end scoring early (needs at least one roll)
pick <category> - choose the punishment category (lowest scorer only)
repick <category> - re-pick at the cost of being punished again next round
accept - confirm you completed the punishment
items - list your items
use <item> <target> - use an item on a player
stats - punishment leaderboard
status - show the current game status
stop - force-stop the current round`
