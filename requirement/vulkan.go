package requirement

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

const vulkanDownloads = "https://vulkan.lunarg.com/sdk/home"

// SDK directories are named after their version, e.g. C:\VulkanSDK\1.3.216.0.
var sdkDirPattern = regexp.MustCompile(`^v?\d+(\.\d+){1,3}$`)

// Vulkan checks the SDK pointed to by VULKAN_SDK.
type Vulkan struct {
	base
	sdkPath    string
	sdkVersion string
	minVersion string
}

// NewVulkan returns a Vulkan checker. sdkVersion may be empty, in which case the
// version is read from the SDK directory name.
func NewVulkan(sdkPath, sdkVersion, minVersion string, out io.Writer, logger *zap.Logger) *Vulkan {
	return &Vulkan{
		base:       newBase(out, logger),
		sdkPath:    sdkPath,
		sdkVersion: sdkVersion,
		minVersion: minVersion,
	}
}

func (v *Vulkan) Name() string {
	return "Vulkan SDK"
}

// Validate implements Checker.
func (v *Vulkan) Validate(ctx context.Context) (bool, error) {
	if v.sdkPath == "" {
		v.printf("You don't have the Vulkan SDK installed!\n"+
			"  Install Vulkan SDK %s or newer from %s and make sure VULKAN_SDK is set.\n", v.minVersion, vulkanDownloads)
		return false, nil
	}

	info, err := os.Stat(v.sdkPath)
	if err != nil || !info.IsDir() {
		v.printf("VULKAN_SDK points to %s, which is not a directory.\n"+
			"  Reinstall the Vulkan SDK from %s\n", v.sdkPath, vulkanDownloads)
		return false, nil
	}

	version, ok := v.detectVersion()
	if !ok {
		v.logger.Warn("could not determine vulkan sdk version", zap.String("path", v.sdkPath))
		v.printf("Vulkan SDK found at %s (version unknown)\n", v.sdkPath)
		return true, nil
	}

	satisfied, err := atLeast(version, v.minVersion)
	if err != nil {
		return false, err
	}
	if !satisfied {
		v.printf("Vulkan SDK %s is too old, version %s or newer is required.\n"+
			"  Download a newer SDK from %s\n", version, v.minVersion, vulkanDownloads)
		return false, nil
	}

	v.printf("Vulkan SDK %s found at %s\n", version, v.sdkPath)
	return true, nil
}

// detectVersion returns the explicit version, or the first of the SDK directory and
// its parent whose name parses as a version (Linux SDKs end in an arch directory).
func (v *Vulkan) detectVersion() (string, bool) {
	if v.sdkVersion != "" {
		_, ok := normalizeVersion(v.sdkVersion)
		return v.sdkVersion, ok
	}

	dir := filepath.Clean(v.sdkPath)
	for _, name := range []string{filepath.Base(dir), filepath.Base(filepath.Dir(dir))} {
		if sdkDirPattern.MatchString(name) {
			return name, true
		}
	}
	return "", false
}
