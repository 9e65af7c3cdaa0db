package movement

// Kind is the kind of a movement.
type Kind uint8

const (
	// KindTraverse walks one block horizontally, breaking blocks in the way or bridging over gaps.
	KindTraverse Kind = iota
	// KindAscend jumps up one block, placing a block to land on if needed.
	KindAscend
	// KindDescend walks off a block and falls one block.
	KindDescend
	// KindFall walks off a block and falls more than one block.
	KindFall
	// KindDiagonal walks one block diagonally.
	KindDiagonal
	// KindPillar jumps and places a block below, or climbs a ladder.
	KindPillar
	// KindDownward breaks the block below and falls onto the one under it, or climbs down a ladder.
	KindDownward
	// KindParkour sprint-jumps across a gap of one to three blocks.
	KindParkour
)

func (k Kind) String() string {
	switch k {
	case KindTraverse:
		return "traverse"
	case KindAscend:
		return "ascend"
	case KindDescend:
		return "descend"
	case KindFall:
		return "fall"
	case KindDiagonal:
		return "diagonal"
	case KindPillar:
		return "pillar"
	case KindDownward:
		return "downward"
	case KindParkour:
		return "parkour"
	}
	return "unknown"
}

// Status is the execution status of a movement.
type Status uint8

const (
	// StatusPrepping means blocks are being broken or placed before the movement can start.
	StatusPrepping Status = iota
	// StatusWaiting means the movement is holding position until it can continue preparing.
	StatusWaiting
	// StatusRunning means the agent is moving towards the destination.
	StatusRunning
	// StatusSuccess means the agent reached the destination.
	StatusSuccess
	// StatusFailed means the movement could not be completed.
	StatusFailed
	// StatusUnreachable means the movement found it is impossible to complete from where the agent is.
	StatusUnreachable
	// StatusCancelled means execution of the movement was abandoned.
	StatusCancelled
)

// Terminal returns true if the status can no longer change.
func (s Status) Terminal() bool {
	return s >= StatusSuccess
}

func (s Status) String() string {
	switch s {
	case StatusPrepping:
		return "prepping"
	case StatusWaiting:
		return "waiting"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusUnreachable:
		return "unreachable"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}
