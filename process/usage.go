package process

import (
	psprocess "github.com/shirou/gopsutil/v3/process"
)

// Usage is the resource usage of a running ffmpeg.
type Usage struct {
	CPU    float64 `json:"cpu"`    // percent, 100 per core
	Memory uint64  `json:"memory"` // resident bytes
}

func usage(pid int32) (Usage, error) {
	proc, err := psprocess.NewProcess(pid)
	if err != nil {
		return Usage{}, err
	}

	u := Usage{}

	if cpu, err := proc.CPUPercent(); err == nil {
		u.CPU = cpu
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return u, err
	}

	u.Memory = mem.RSS

	return u, nil
}
