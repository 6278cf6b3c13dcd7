package config

// StorageConfig locates uploaded stay images on disk and the URL prefix
// under which they are served.
type StorageConfig struct {
	ImageDir      string
	ImageURLBase  string
	MaxImageBytes int64
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		ImageDir:      envStr("IMAGE_DIR", "uploads"),
		ImageURLBase:  envStr("IMAGE_URL_BASE", "/images"),
		MaxImageBytes: int64(envInt("IMAGE_MAX_BYTES", 5<<20)),
	}
}
