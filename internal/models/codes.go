package models

// LogKindBits is the fixed bit width of the log-kind portion of a channel
// code. The game packs the log kind into the low 7 bits of the chat type.
const LogKindBits = 7

// logKindMask extracts the log kind from a channel code.
const logKindMask = (1 << LogKindBits) - 1

// LogKind is the masked classification code derived from a channel code.
type LogKind uint16

// Recognized log kinds
const (
	LogKindParty        LogKind = 0x0E
	LogKindAlliance     LogKind = 0x0F
	LogKindFreeCompany  LogKind = 0x18
	LogKindCrafting     LogKind = 0x2B
	LogKindSystem       LogKind = 0x39
	LogKindGathering    LogKind = 0x3A
	LogKindLootNotice   LogKind = 0x3D
	LogKindObtain       LogKind = 0x3E
	LogKindRandomNumber LogKind = 0x41
)

var logKindNames = map[LogKind]string{
	LogKindParty:        "Party",
	LogKindAlliance:     "Alliance",
	LogKindFreeCompany:  "FreeCompany",
	LogKindCrafting:     "Crafting",
	LogKindSystem:       "System",
	LogKindGathering:    "Gathering",
	LogKindLootNotice:   "LootNotice",
	LogKindObtain:       "Obtain",
	LogKindRandomNumber: "RandomNumber",
}

// LogKindOf derives the log kind from a full channel code.
func LogKindOf(channelCode uint16) LogKind {
	return LogKind(channelCode & logKindMask)
}

// IsRecognized reports whether the log kind is part of the known set.
func (k LogKind) IsRecognized() bool {
	_, ok := logKindNames[k]
	return ok
}

func (k LogKind) String() string {
	if name, ok := logKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MessageType is the full channel code of a chat message. Unlike LogKind it
// keeps the high bits, which encode the message source.
type MessageType uint16

// Recognized message types
const (
	MessageTypeParty             MessageType = 0x000E
	MessageTypeAlliance          MessageType = 0x000F
	MessageTypeFreeCompany       MessageType = 0x0018
	MessageTypeSystem            MessageType = 0x0039
	MessageTypeCraft             MessageType = 0x082B
	MessageTypeGather            MessageType = 0x083A
	MessageTypeLootNotice        MessageType = 0x083D
	MessageTypeLocalPlayerObtain MessageType = 0x083E
	MessageTypeLootRoll          MessageType = 0x0841
	MessageTypePartyObtain       MessageType = 0x103E
	MessageTypePartyRoll         MessageType = 0x1041
	MessageTypeAllianceObtain    MessageType = 0x203E
	MessageTypeAllianceRoll      MessageType = 0x2041
)

var messageTypeNames = map[MessageType]string{
	MessageTypeParty:             "Party",
	MessageTypeAlliance:          "Alliance",
	MessageTypeFreeCompany:       "FreeCompany",
	MessageTypeSystem:            "System",
	MessageTypeCraft:             "Craft",
	MessageTypeGather:            "Gather",
	MessageTypeLootNotice:        "LootNotice",
	MessageTypeLocalPlayerObtain: "LocalPlayerObtain",
	MessageTypeLootRoll:          "LootRoll",
	MessageTypePartyObtain:       "PartyObtain",
	MessageTypePartyRoll:         "PartyRoll",
	MessageTypeAllianceObtain:    "AllianceObtain",
	MessageTypeAllianceRoll:      "AllianceRoll",
}

// IsRecognized reports whether the message type is part of the known set.
func (t MessageType) IsRecognized() bool {
	_, ok := messageTypeNames[t]
	return ok
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}
