// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is the detected cache line size for the target architecture.
const cacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// pad is cache line padding to prevent false sharing.
type pad [cacheLineSize]byte
