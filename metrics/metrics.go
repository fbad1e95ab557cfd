// Copyright 2017-2021 DERO Project. All rights reserved.
// Use of this source code in any form is governed by RESEARCH license.
// license can be found in the LICENSE file.
// GPG: 0F39 E425 8C65 3947 702A  8234 08B2 0360 A03A 9DE8
//
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY
// EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL
// THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO,
// PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT,
// STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF
// THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

// this file is the main metrics handler without any cyclic dependency on any other component

package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var startTime = time.Now()

var Set = metrics.NewSet() //all metrics are stored here

var datagramsTotal = Set.NewCounter(`timesync_datagrams_total`)

// this is used if an agent wants to scrap
func WritePrometheus(w http.ResponseWriter, req *http.Request) {
	writePrometheusMetrics(w)
}

func writePrometheusMetrics(w io.Writer) {
	Set.WritePrometheus(w)

	// Export start time and uptime in seconds
	fmt.Fprintf(w, "timesync_start_timestamp %d\n", startTime.Unix())
	fmt.Fprintf(w, "timesync_uptime_seconds %d\n", int(time.Since(startTime).Seconds()))
}

// PeerGauges is the set of per-peer gauges tracking one Synchronizer's
// state, keyed by peer identity at construction time. Unlike the
// package-level datagram counter, these are per-peer because a process
// may be synchronizing against many peers at once.
type PeerGauges struct {
	synchronized *metrics.FloatCounter
	minOWDUsec   *metrics.FloatCounter
	driftUsec    *metrics.FloatCounter
}

// NewPeerGauges registers the gauge family for one peer, labeled by
// peerID. Calling this twice for the same peerID returns gauges backed by
// the same registered counters, since GetOrCreateFloatCounter reuses an
// existing metric of the same name.
func NewPeerGauges(peerID string) *PeerGauges {
	labels := fmt.Sprintf(`{peer=%q}`, peerID)

	return &PeerGauges{
		synchronized: Set.GetOrCreateFloatCounter(`timesync_synchronized` + labels),
		minOWDUsec:   Set.GetOrCreateFloatCounter(`timesync_min_owd_usec` + labels),
		driftUsec:    Set.GetOrCreateFloatCounter(`timesync_clock_drift_usec` + labels),
	}
}

// Update refreshes the gauge family from a Synchronizer's current
// observable state.
func (g *PeerGauges) Update(synchronized bool, minOWDUsec uint32, driftUsec int64) {
	if synchronized {
		g.synchronized.Set(1)
	} else {
		g.synchronized.Set(0)
	}
	g.minOWDUsec.Set(float64(minOWDUsec))
	g.driftUsec.Set(float64(driftUsec))
}

// IncDatagramsTotal counts one more authenticated datagram processed,
// across all peers.
func IncDatagramsTotal() {
	datagramsTotal.Inc()
}
