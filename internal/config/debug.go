package config

import "os"

func IsDebug() bool {
	return os.Getenv("PDFCHAT_DEBUG") == "1"
}
