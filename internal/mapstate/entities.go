package mapstate

import (
	"fmt"
	"slices"

	"worldmap/internal/logging"
)

// Regions returns the stored regions in insertion order. The slice is
// owned by the State; callers must not modify it.
func (s *State) Regions() []Region { return s.regions }
func (s *State) POIs() []POI       { return s.pois }
func (s *State) Paths() []Path     { return s.paths }

func (s *State) POI(id string) (POI, bool) {
	for _, p := range s.pois {
		if p.ID == id {
			return p, true
		}
	}
	return POI{}, false
}

func (s *State) reject(kind string, err error) error {
	s.log.Warn("rejected entity", logging.String("kind", kind), logging.Err(err))
	return err
}

func (s *State) claim(kind int, name, id string) error {
	if _, dup := s.ids[kind][id]; dup {
		return s.reject(name, fmt.Errorf("%w: %s %q", ErrDuplicateID, name, id))
	}
	s.ids[kind][id] = struct{}{}
	return nil
}

func (s *State) addRegion(r Region) error {
	if err := ValidateRegion(r); err != nil {
		return s.reject("region", err)
	}
	if err := s.claim(kindRegion, "region", r.ID); err != nil {
		return err
	}
	r.Polygon = slices.Clone(r.Polygon)
	s.regions = append(s.regions, r)
	return nil
}

func (s *State) addPOI(p POI) error {
	if err := ValidatePOI(p); err != nil {
		return s.reject("poi", err)
	}
	if err := s.claim(kindPOI, "poi", p.ID); err != nil {
		return err
	}
	s.pois = append(s.pois, normalizePOI(p))
	return nil
}

func (s *State) addPath(p Path) error {
	if err := ValidatePath(p); err != nil {
		return s.reject("path", err)
	}
	if err := s.claim(kindPath, "path", p.ID); err != nil {
		return err
	}
	p.Points = slices.Clone(p.Points)
	s.paths = append(s.paths, p)
	return nil
}

// AddRegion validates and stores r. Invalid or duplicate regions are logged
// and returned as errors; the state is left unchanged.
func (s *State) AddRegion(r Region) error {
	if err := s.addRegion(r); err != nil {
		return err
	}
	s.notify(ChangeEntities)
	return nil
}

func (s *State) AddPOI(p POI) error {
	if err := s.addPOI(p); err != nil {
		return err
	}
	s.notify(ChangeEntities)
	return nil
}

func (s *State) AddPath(p Path) error {
	if err := s.addPath(p); err != nil {
		return err
	}
	s.notify(ChangeEntities)
	return nil
}

// RemoveRegion deletes a region by id and reports whether it existed.
func (s *State) RemoveRegion(id string) bool {
	n := len(s.regions)
	s.regions = slices.DeleteFunc(s.regions, func(r Region) bool { return r.ID == id })
	return s.removed(kindRegion, id, n != len(s.regions))
}

func (s *State) RemovePOI(id string) bool {
	n := len(s.pois)
	s.pois = slices.DeleteFunc(s.pois, func(p POI) bool { return p.ID == id })
	if s.hovered == id {
		s.hovered = ""
	}
	return s.removed(kindPOI, id, n != len(s.pois))
}

func (s *State) RemovePath(id string) bool {
	n := len(s.paths)
	s.paths = slices.DeleteFunc(s.paths, func(p Path) bool { return p.ID == id })
	return s.removed(kindPath, id, n != len(s.paths))
}

func (s *State) removed(kind int, id string, ok bool) bool {
	if !ok {
		return false
	}
	delete(s.ids[kind], id)
	s.notify(ChangeEntities)
	return true
}

// SetInitialData replaces every collection. Bad records are logged and
// skipped so one malformed entry never blocks the rest of the batch. It
// returns how many records were rejected.
func (s *State) SetInitialData(regions []Region, pois []POI, paths []Path) int {
	s.regions, s.pois, s.paths = nil, nil, nil
	for i := range s.ids {
		s.ids[i] = map[string]struct{}{}
	}
	rejected := 0
	for _, r := range regions {
		if s.addRegion(r) != nil {
			rejected++
		}
	}
	for _, p := range pois {
		if s.addPOI(p) != nil {
			rejected++
		}
	}
	for _, p := range paths {
		if s.addPath(p) != nil {
			rejected++
		}
	}
	if _, ok := s.ids[kindPOI][s.hovered]; !ok {
		s.hovered = ""
	}
	s.log.Info("entities loaded",
		logging.Int("regions", len(s.regions)),
		logging.Int("pois", len(s.pois)),
		logging.Int("paths", len(s.paths)),
		logging.Int("rejected", rejected))
	s.notify(ChangeEntities)
	return rejected
}
