// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package chat

import "encoding/json"

// GroupMessageEvent is one inbound group chat message.
type GroupMessageEvent struct {
	GroupID int64
	UserID  int64
	Text    string
}

// decodeGroupMessage extracts a group message event from a raw event frame.
// Non-group messages return ok=false.
func decodeGroupMessage(data []byte) (GroupMessageEvent, bool) {
	var evt struct {
		MessageType string `json:"message_type"`
		GroupID     int64  `json:"group_id"`
		UserID      int64  `json:"user_id"`
		RawMessage  string `json:"raw_message"`
	}
	if err := json.Unmarshal(data, &evt); err != nil {
		return GroupMessageEvent{}, false
	}
	if evt.MessageType != "group" {
		return GroupMessageEvent{}, false
	}
	return GroupMessageEvent{
		GroupID: evt.GroupID,
		UserID:  evt.UserID,
		Text:    evt.RawMessage,
	}, true
}
