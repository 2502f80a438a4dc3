package domain

// Command is the token published to the servo controller.
type Command string

const (
	CommandOpen     Command = "open"
	CommandClose    Command = "close"
	Command30Left   Command = "30_left"
	Command30Right  Command = "30_right"
	Command90Left   Command = "90_left"
	Command90Right  Command = "90_right"
	Command180Left  Command = "180_left"
	Command180Right Command = "180_right"
	CommandDance    Command = "dance"
	CommandNone     Command = ""
)

// Commands lists every publishable token in classification order.
var Commands = []Command{
	CommandOpen,
	CommandClose,
	Command180Right,
	Command180Left,
	Command90Right,
	Command90Left,
	Command30Right,
	Command30Left,
	CommandDance,
}

func (c Command) String() string {
	if c == CommandNone {
		return "unrecognized"
	}
	return string(c)
}
