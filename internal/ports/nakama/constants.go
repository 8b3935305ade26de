package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open room.
	RpcQuickMatch = "quick_match"

	// RpcJoinRoom is the RPC id for joining a room by its advertised code.
	RpcJoinRoom = "join_room"

	// RpcVoiceToken is the RPC id for voice-channel access tokens.
	RpcVoiceToken = "voice_token"

	// MatchNameLitfish is the authoritative match handler name registered
	// with Nakama.
	MatchNameLitfish = "litfish_match"

	// MatchLabelGame is the label value identifying our matches.
	MatchLabelGame = "litfish"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame  int64 = 1
	OpAskCard    int64 = 2
	OpDeclareSet int64 = 3
	OpResetGame  int64 = 4
	OpKickPlayer int64 = 5

	// Server -> Client events
	OpLobbyState    int64 = 101
	OpGameStarted   int64 = 102
	OpStateUpdate   int64 = 103 // sent privately, per-player masked view
	OpAskResult     int64 = 104
	OpDeclareResult int64 = 105
	OpGameEnded     int64 = 106
	OpKicked        int64 = 107
	OpGameError     int64 = 108
)
