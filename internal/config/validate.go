package config

import "fmt"

var validAxes = map[string]bool{"X": true, "Y": true, "Z": true, "-X": true, "-Y": true, "-Z": true}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateInterchange(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateConversion() error {
	if c.Conversion.AnimationSampleRate <= 0 {
		return fmt.Errorf("conversion.animation_sample_rate must be positive, got %g", c.Conversion.AnimationSampleRate)
	}
	if c.Conversion.HipBoneName == c.Conversion.RootBoneName {
		return fmt.Errorf("conversion.hip_bone_name and conversion.root_bone_name must differ, both are %q", c.Conversion.HipBoneName)
	}
	if c.Conversion.SmoothCutoffHz < 0 {
		return fmt.Errorf("conversion.smooth_cutoff_hz must not be negative, got %g", c.Conversion.SmoothCutoffHz)
	}
	if c.Conversion.SmoothCutoffHz > 0 && c.Conversion.SmoothCutoffHz >= c.Conversion.AnimationSampleRate/2 {
		return fmt.Errorf("conversion.smooth_cutoff_hz (%g) must stay below half the sample rate (%g)",
			c.Conversion.SmoothCutoffHz, c.Conversion.AnimationSampleRate)
	}
	if c.Conversion.GroundTolerance < 0 {
		return fmt.Errorf("conversion.ground_tolerance must not be negative, got %g", c.Conversion.GroundTolerance)
	}
	return nil
}

func (c *Config) validateInterchange() error {
	if c.Interchange.TimeoutSeconds <= 0 {
		return fmt.Errorf("interchange.timeout_seconds must be positive, got %d", c.Interchange.TimeoutSeconds)
	}
	if !validAxes[c.Interchange.ForwardAxis] {
		return fmt.Errorf("interchange.forward_axis: unsupported value %q", c.Interchange.ForwardAxis)
	}
	if !validAxes[c.Interchange.UpAxis] {
		return fmt.Errorf("interchange.up_axis: unsupported value %q", c.Interchange.UpAxis)
	}
	if c.Interchange.ForwardAxis == c.Interchange.UpAxis {
		return fmt.Errorf("interchange.forward_axis and interchange.up_axis must differ, both are %q", c.Interchange.UpAxis)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
