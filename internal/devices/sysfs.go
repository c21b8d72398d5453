package devices

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/smazurov/camview/internal/logging"
)

// FindDevices enumerates video4linux class entries, keeps the ones Probe
// accepts and attaches their stable by-id names.
func (d *Detector) FindDevices() ([]DeviceInfo, error) {
	logger := logging.GetLogger("devices")

	entries, err := os.ReadDir(d.SysfsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", d.SysfsRoot, err)
	}

	byID := d.stableNames()
	var found []DeviceInfo

	for _, entry := range entries {
		node := entry.Name()
		if !strings.HasPrefix(node, "video") {
			continue
		}

		info := DeviceInfo{
			DevicePath: filepath.Join(d.DevDir, node),
			DeviceName: readAttr(filepath.Join(d.SysfsRoot, node, "name")),
			Index:      minorIndex(node),
		}
		info.DeviceID = byID[info.DevicePath]

		if d.Probe != nil && !d.Probe(info.DevicePath) {
			logger.Debug("Skipping non-capture node", "path", info.DevicePath, "name", info.DeviceName)
			continue
		}
		found = append(found, info)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Index < found[j].Index })
	logger.Debug("Device scan complete", "count", len(found))
	return found, nil
}

// stableNames maps device node paths to their by-id symlink names.
func (d *Detector) stableNames() map[string]string {
	names := make(map[string]string)
	entries, err := os.ReadDir(d.ByIDDir)
	if err != nil {
		return names
	}
	for _, entry := range entries {
		link := filepath.Join(d.ByIDDir, entry.Name())
		target, err := os.Readlink(link)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(d.ByIDDir, target)
		}
		target = filepath.Join(d.DevDir, filepath.Base(filepath.Clean(target)))
		if _, taken := names[target]; !taken {
			names[target] = entry.Name()
		}
	}
	return names
}

func readAttr(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func minorIndex(node string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(node, "video"))
	if err != nil {
		return -1
	}
	return n
}
