package config

const (
	defaultHipBoneName         = "Hips"
	defaultRootBoneName        = "root"
	defaultAnimationSampleRate = 60.0
	defaultGroundTolerance     = 0.1
	defaultUVMapsToKeep        = -1
	defaultLogDir              = "~/.local/share/rigroot/logs"
	defaultDataDir             = "~/.local/share/rigroot"
	defaultConverterBinary     = "fbxsnap"
	defaultConverterTimeout    = 120
	defaultForwardAxis         = "Y"
	defaultUpAxis              = "Z"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Conversion: Conversion{
			HipBoneName:         defaultHipBoneName,
			RootBoneName:        defaultRootBoneName,
			AnimationSampleRate: defaultAnimationSampleRate,
			AppendAssetTypeDir:  true,
			DumpDiagnostics:     false,
			SmoothCutoffHz:      0,
			UVMapsToKeep:        defaultUVMapsToKeep,
			ExtractTextures:     true,
			GroundTolerance:     defaultGroundTolerance,
		},
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Interchange: Interchange{
			ConverterBinary: defaultConverterBinary,
			TimeoutSeconds:  defaultConverterTimeout,
			ForwardAxis:     defaultForwardAxis,
			UpAxis:          defaultUpAxis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
