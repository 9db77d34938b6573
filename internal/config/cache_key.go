package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RunStateKey returns the cache key holding a run's serialized AssessmentState
func (r *CacheKeyStruct) RunStateKey(runID string) string {
	return fmt.Sprintf("run:%s:state", runID)
}

// RunArtifactKey returns the cache key holding the document bytes produced at finalization
func (r *CacheKeyStruct) RunArtifactKey(runID string) string {
	return fmt.Sprintf("run:%s:artifact", runID)
}

// RunArtifactNameKey returns the cache key holding the fallback download filename
func (r *CacheKeyStruct) RunArtifactNameKey(runID string) string {
	return fmt.Sprintf("run:%s:artifact_name", runID)
}

// RunFinalizeLockKey returns the key guarding a single in-flight save per run
func (r *CacheKeyStruct) RunFinalizeLockKey(runID string) string {
	return fmt.Sprintf("run:%s:finalize_lock", runID)
}

var CacheKey = NewCacheKeyStruct()
