package envprobe

// Environment variables consulted when snapshotting the build configuration.
const (
	KeyOutDir          = "OUT_DIR"
	KeyProfile         = "PROFILE"
	KeyOptLevel        = "OPT_LEVEL"
	KeyFeatureGPL      = "CARGO_FEATURE_GPL"
	KeyFeatureX264     = "CARGO_FEATURE_X264"
	KeyForceRebuild    = "FFDEV1"
	KeyForceRegenerate = "FFDEV2"
	KeyPkgConfigPath   = "PKG_CONFIG_PATH"
	KeyX264Libs        = "DEP_X264_LIBS"
	KeyX264PkgConfig   = "DEP_X264_PKGCONFIG"
	KeyPath            = "PATH"
	KeyCC              = "CC"
	KeyAR              = "AR"
	KeyLogLevel        = "FFBUILD_LOG_LEVEL"
)

// Override values that switch the two caches off.
const (
	ForceRebuildValue    = "1"
	ForceRegenerateValue = "2"
)
