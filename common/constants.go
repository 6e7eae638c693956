package common

const (
	SrcFileExtension = ".sy"
	ConfigFileName   = "sysyc.toml"
	ConfigEnvVar     = "SYSYC_CONFIG"
	Version          = "0.1.0"
)
