package config

import "strings"

// normalize trims string fields, fills in blank values with defaults, and
// expands the path fields.
func (c *Config) normalize() error {
	c.Conversion.HipBoneName = strings.TrimSpace(c.Conversion.HipBoneName)
	if c.Conversion.HipBoneName == "" {
		c.Conversion.HipBoneName = defaultHipBoneName
	}
	c.Conversion.RootBoneName = strings.TrimSpace(c.Conversion.RootBoneName)
	if c.Conversion.RootBoneName == "" {
		c.Conversion.RootBoneName = defaultRootBoneName
	}
	if c.Conversion.AnimationSampleRate == 0 {
		c.Conversion.AnimationSampleRate = defaultAnimationSampleRate
	}
	if c.Conversion.GroundTolerance == 0 {
		c.Conversion.GroundTolerance = defaultGroundTolerance
	}

	c.Interchange.ConverterBinary = strings.TrimSpace(c.Interchange.ConverterBinary)
	if c.Interchange.ConverterBinary == "" {
		c.Interchange.ConverterBinary = defaultConverterBinary
	}
	if c.Interchange.TimeoutSeconds == 0 {
		c.Interchange.TimeoutSeconds = defaultConverterTimeout
	}
	c.Interchange.ForwardAxis = strings.ToUpper(strings.TrimSpace(c.Interchange.ForwardAxis))
	if c.Interchange.ForwardAxis == "" {
		c.Interchange.ForwardAxis = defaultForwardAxis
	}
	c.Interchange.UpAxis = strings.ToUpper(strings.TrimSpace(c.Interchange.UpAxis))
	if c.Interchange.UpAxis == "" {
		c.Interchange.UpAxis = defaultUpAxis
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	for _, field := range []*string{&c.Paths.OutputDir, &c.Paths.LogDir, &c.Paths.DataDir} {
		if strings.TrimSpace(*field) == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
