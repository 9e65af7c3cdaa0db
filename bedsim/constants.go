package bedsim

const (
	DefaultJumpHeight       = 0.42
	DefaultAirFriction      = 0.91
	DefaultBlockFriction    = 0.6
	NormalGravityMultiplier = 0.98
	NormalGravity           = 0.08
	// SprintJumpBoost is the horizontal velocity added in the direction faced when jumping while
	// sprinting.
	SprintJumpBoost = 0.2
	// GroundAccelerationFactor is divided by the cube of the friction of the block walked on to get
	// the acceleration on the ground.
	GroundAccelerationFactor = 0.16277136
	AirSpeed                 = 0.02
	SprintingAirSpeed        = 0.026
	MovementSpeed            = 0.1
	SprintMultiplier         = 1.3
	ClimbSpeed               = 0.2
	MaxClimbFallSpeed        = 0.15
	MaxSneakImpulse          = 0.3
	ImpulseMultiplier        = 0.98

	WaterDrag        = 0.8
	WaterGravity     = 0.02
	WaterAccel       = 0.02
	WaterSwimImpulse = 0.04

	PlayerWidth  = 0.6
	PlayerHeight = 1.8

	JumpDelayTicks = 10
	StepHeight     = 0.6
	// breakTicksPerHardness is the amount of ticks breaking a block of hardness 1 takes with a break
	// speed of 1.
	breakTicksPerHardness = 30
)
