package version

// Version is the limitless2md release version. Overridden at build time:
//
//	go build -ldflags "-X github.com/takak2166/limitless2md/internal/version.Version=v0.2.0"
var Version = "dev"
