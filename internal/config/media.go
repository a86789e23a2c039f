package config

// Image bounds resized uploads. Both limits are in pixels.
type Image struct {
	MaxWidth  int
	MaxHeight int
}

// ImageFromEnv reads IMAGE_MAX_WIDTH and IMAGE_MAX_HEIGHT (default 1280 each).
func ImageFromEnv(get Lookup) Image {
	return Image{
		MaxWidth:  int(readUint(get, "IMAGE_MAX_WIDTH", 1280)),
		MaxHeight: int(readUint(get, "IMAGE_MAX_HEIGHT", 1280)),
	}
}

// Upload locates stored files.
type Upload struct {
	Root string
	// ImageDir is recognized for compatibility; image keys are always
	// <YYYYMM>/<uuid>.<ext> directly under Root.
	ImageDir string
	FileDir  string
}

// UploadFromEnv reads UPLOAD_ROOT, UPLOAD_IMAGE_DIR and UPLOAD_FILE_DIR.
func UploadFromEnv(get Lookup) Upload {
	return Upload{
		Root:     readString(get, "UPLOAD_ROOT", "./var/uploads"),
		ImageDir: readString(get, "UPLOAD_IMAGE_DIR", "images"),
		FileDir:  readString(get, "UPLOAD_FILE_DIR", "files"),
	}
}
