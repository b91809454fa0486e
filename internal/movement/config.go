package movement

// Config tunes the movement solver. Units are metres and seconds.
type Config struct {
	Gravity         float64 `yaml:"gravity"`
	Acceleration    float64 `yaml:"acceleration"`
	AirAcceleration float64 `yaml:"air_acceleration"`
	AirCap          float64 `yaml:"air_cap"`
	Friction        float64 `yaml:"friction"`
	StopSpeed       float64 `yaml:"stop_speed"`
	WalkSpeed       float64 `yaml:"walk_speed"`
	SprintSpeed     float64 `yaml:"sprint_speed"`
	CrouchSpeed     float64 `yaml:"crouch_speed"`
	JumpForce       float64 `yaml:"jump_force"`
	MaxVelocity     float64 `yaml:"max_velocity"`
	SlopeLimit      float64 `yaml:"slope_limit"`
	SwimSpeed       float64 `yaml:"swim_speed"`
	SwimFriction    float64 `yaml:"swim_friction"`
	SinkSpeed       float64 `yaml:"sink_speed"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:         20,
		Acceleration:    14,
		AirAcceleration: 12,
		AirCap:          0.4,
		Friction:        6,
		StopSpeed:       1.905,
		WalkSpeed:       7,
		SprintSpeed:     12,
		CrouchSpeed:     4,
		JumpForce:       6.5,
		MaxVelocity:     50,
		SlopeLimit:      45,
		SwimSpeed:       4,
		SwimFriction:    3,
		SinkSpeed:       1,
	}
}
