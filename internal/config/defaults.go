package config

const (
	// SelectionPlatforms fans out across every cross-platform download.
	SelectionPlatforms = "platforms"
	// SelectionTitle selects one download by exact title.
	SelectionTitle = "title"
)

const (
	defaultManifestURL    = "https://raw.githubusercontent.com/CRModders/CosmicArchive/main/versions.json"
	defaultGameURL        = "https://finalforeach.itch.io/cosmic-reach"
	defaultUserAgent      = "reachwatch/dev"
	defaultRequestTimeout = 300
	defaultTargetTitle    = "cosmic-reach-jar.zip"
	defaultJarPrefix      = "Cosmic Reach-"
	defaultJarExtension   = "jar"
	defaultWorkDir        = "."
	defaultLockFile       = ".reachwatch.lock"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Manifest: Manifest{
			URL: defaultManifestURL,
		},
		Storefront: Storefront{
			GameURL:        defaultGameURL,
			UserAgent:      defaultUserAgent,
			RequestTimeout: defaultRequestTimeout,
		},
		Selection: Selection{
			Mode:         SelectionPlatforms,
			TargetTitle:  defaultTargetTitle,
			JarPrefix:    defaultJarPrefix,
			JarExtension: defaultJarExtension,
		},
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LockFile: defaultLockFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
