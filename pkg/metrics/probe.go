/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package metrics

// ProbeStatus classifies the outcome of a network reachability probe.
type ProbeStatus string

const (
	// ProbeSuccess means an echo reply was received and timed.
	ProbeSuccess ProbeStatus = "success"
	// ProbeFailure means the probe ran to completion but the host did not answer.
	ProbeFailure ProbeStatus = "failed"
	// ProbeError means the probe itself could not run (timeout, missing tool, permissions).
	ProbeError ProbeStatus = "error"
)

// NetworkReading is the typed result of one echo probe.
// Latency is non-nil if and only if Status is ProbeSuccess; use the
// constructors below instead of building the struct by hand.
type NetworkReading struct {
	LatencyMS *float64    `json:"latency_ms"`
	Status    ProbeStatus `json:"status"`
}

// ProbeSucceeded returns a successful reading with the given round-trip time.
func ProbeSucceeded(latencyMS float64) NetworkReading {
	return NetworkReading{LatencyMS: &latencyMS, Status: ProbeSuccess}
}

// ProbeFailed returns a reading for a completed probe that got no reply.
func ProbeFailed() NetworkReading {
	return NetworkReading{Status: ProbeFailure}
}

// ProbeErrored returns a reading for a probe that could not be executed.
func ProbeErrored() NetworkReading {
	return NetworkReading{Status: ProbeError}
}

// Latency returns the round-trip time and whether it is present.
func (r NetworkReading) Latency() (float64, bool) {
	if r.LatencyMS == nil {
		return 0, false
	}
	return *r.LatencyMS, true
}
