package parallelism

// decideEvenSubpartitions implements the even-subpartitions path: an
// arbitrary mix of pointwise / all-to-all / broadcast inputs, or a fixed
// initial parallelism.
func (d *ParallelismDecider) decideEvenSubpartitions(
	vertexID string,
	consumedResults []BlockingResultInfo,
	initialParallelism int,
) (ParallelismAndInputInfos, error) {
	p := initialParallelism
	if p == Unset {
		p = d.decideParallelism(consumedResults)
	}

	log.Info("vertex {}: even-subpartitions path chose parallelism {}", vertexID, p)
	return computeVertexInputInfos(p, consumedResults), nil
}

// decideParallelism sizes parallelism from the non-broadcast byte total
// and the per-task data budget, after capping the broadcast contribution.
func (d *ParallelismDecider) decideParallelism(consumedResults []BlockingResultInfo) int {
	broadcastBytes := sumBytesProduced(broadcastResultsOf(consumedResults))
	if cap := d.cfg.broadcastCap(); broadcastBytes > cap {
		broadcastBytes = cap
	}
	nonBroadcastBytes := sumBytesProduced(nonBroadcastResultsOf(consumedResults))

	budget := d.cfg.DataVolumePerTask - broadcastBytes
	p := int(ceilDiv(nonBroadcastBytes, budget))
	return clamp(p, d.cfg.MinParallelism, d.cfg.MaxParallelism)
}
