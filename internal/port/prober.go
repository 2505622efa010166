package port

import "github.com/bnema/photobridge/internal/domain"

type MediaProber interface {
	Probe(path string) (*domain.ProbeInfo, error)
}
