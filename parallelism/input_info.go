package parallelism

// ExecutionVertexInputInfo is the input assignment for one downstream
// subtask against one upstream result: it reads the Cartesian product
// of PartitionRange and SubpartitionRange from that result.
type ExecutionVertexInputInfo struct {
	SubtaskIndex      int
	PartitionRange    IndexRange
	SubpartitionRange IndexRange
}

// JobVertexInputInfo is the per-subtask input assignment for one
// upstream result, indexed 0..P-1.
type JobVertexInputInfo []ExecutionVertexInputInfo

// ParallelismAndInputInfos is the decider's output: the chosen
// parallelism, and the input assignment for every consumed result.
type ParallelismAndInputInfos struct {
	Parallelism int
	Inputs      map[ResultID]JobVertexInputInfo
}

// buildInputInfos expands the subpartition ranges chosen by the
// even-data path (one per subtask) into per-result input infos. Every
// input gets the full partition range; broadcast inputs always resolve
// to subpartition range (0,0).
func buildInputInfos(consumedResults []BlockingResultInfo, ranges []IndexRange) ParallelismAndInputInfos {
	p := len(ranges)
	inputs := make(map[ResultID]JobVertexInputInfo, len(consumedResults))

	for _, r := range consumedResults {
		partitionRange := IndexRange{Start: 0, End: r.NumPartitions() - 1}
		info := make(JobVertexInputInfo, p)
		for i := 0; i < p; i++ {
			subRange := ranges[i]
			if r.IsBroadcast() {
				subRange = zeroRange
			}
			info[i] = ExecutionVertexInputInfo{
				SubtaskIndex:      i,
				PartitionRange:    partitionRange,
				SubpartitionRange: subRange,
			}
		}
		inputs[r.ID()] = info
	}

	return ParallelismAndInputInfos{Parallelism: p, Inputs: inputs}
}

// rangeForIndex splits `total` items as evenly as possible into `groups`
// contiguous ranges and returns the range assigned to `idx`: start =
// floor(idx*total/groups), end = floor((idx+1)*total/groups)-1.
func rangeForIndex(idx, total, groups int) IndexRange {
	start := idx * total / groups
	end := (idx+1)*total/groups - 1
	return IndexRange{Start: start, End: end}
}

// ceilDivInt is integer ceiling division for non-negative a and positive b.
func ceilDivInt(a, b int) int {
	return (a + b - 1) / b
}

// computeVertexInputInfos is the range expander used by the
// even-subpartitions path. It assigns index ranges evenly by count,
// never by byte weight:
//
//   - Broadcast results: every consumer reads (0,0).
//   - All-to-all (non-broadcast) results: subpartitions 0..S-1 are split
//     evenly across the P consumers via rangeForIndex; every consumer
//     reads the full partition range (0, numPartitions-1).
//   - Pointwise results: when P <= numPartitions, each consumer is
//     assigned a contiguous range of whole partitions (rangeForIndex
//     over numPartitions) and reads subpartition (0,0) of each (pointwise
//     producers expose one downstream-addressable subpartition per
//     partition in that regime). When P > numPartitions, each partition
//     is shared by a contiguous group of consumers (grouped via the
//     dual, ceiling-based split), and within a group the partition's
//     subpartitions are split evenly across the group's consumers.
func computeVertexInputInfos(p int, consumedResults []BlockingResultInfo) ParallelismAndInputInfos {
	inputs := make(map[ResultID]JobVertexInputInfo, len(consumedResults))

	for _, r := range consumedResults {
		var info JobVertexInputInfo
		switch {
		case r.IsBroadcast():
			info = broadcastInputInfo(r, p)
		case r.IsPointwise():
			info = pointwiseInputInfo(r, p)
		default:
			info = allToAllInputInfo(r, p)
		}
		inputs[r.ID()] = info
	}

	return ParallelismAndInputInfos{Parallelism: p, Inputs: inputs}
}

func broadcastInputInfo(r BlockingResultInfo, p int) JobVertexInputInfo {
	partitionRange := IndexRange{Start: 0, End: r.NumPartitions() - 1}
	info := make(JobVertexInputInfo, p)
	for i := 0; i < p; i++ {
		info[i] = ExecutionVertexInputInfo{
			SubtaskIndex:      i,
			PartitionRange:    partitionRange,
			SubpartitionRange: zeroRange,
		}
	}
	return info
}

func allToAllInputInfo(r BlockingResultInfo, p int) JobVertexInputInfo {
	partitionRange := IndexRange{Start: 0, End: r.NumPartitions() - 1}
	numSubpartitions := r.NumSubpartitions(0)

	info := make(JobVertexInputInfo, p)
	for i := 0; i < p; i++ {
		info[i] = ExecutionVertexInputInfo{
			SubtaskIndex:      i,
			PartitionRange:    partitionRange,
			SubpartitionRange: rangeForIndex(i, numSubpartitions, p),
		}
	}
	return info
}

func pointwiseInputInfo(r BlockingResultInfo, p int) JobVertexInputInfo {
	n := r.NumPartitions()
	info := make(JobVertexInputInfo, p)

	if p <= n {
		for i := 0; i < p; i++ {
			partitionRange := rangeForIndex(i, n, p)
			info[i] = ExecutionVertexInputInfo{
				SubtaskIndex:      i,
				PartitionRange:    partitionRange,
				SubpartitionRange: zeroRange,
			}
		}
		return info
	}

	// p > n: each partition is shared by a contiguous group of consumers.
	for i := 0; i < p; i++ {
		partitionIdx := i * n / p
		groupStart := ceilDivInt(partitionIdx*p, n)
		groupEnd := ceilDivInt((partitionIdx+1)*p, n) - 1
		groupSize := groupEnd - groupStart + 1
		j := i - groupStart

		partitionRange := IndexRange{Start: partitionIdx, End: partitionIdx}
		numSubpartitions := r.NumSubpartitions(partitionIdx)

		info[i] = ExecutionVertexInputInfo{
			SubtaskIndex:      i,
			PartitionRange:    partitionRange,
			SubpartitionRange: rangeForIndex(j, numSubpartitions, groupSize),
		}
	}
	return info
}
