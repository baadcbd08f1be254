package dataset

import (
	"io/fs"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/plant-locator/internal/model"
	"github.com/sells-group/plant-locator/internal/normalize"
)

// File names expected at the root of the filesystem passed to Load.
const (
	ElectricityFile = "electricity.yaml"
	EODBFile        = "eodb.yaml"
	LaborFile       = "labor.yaml"
	ZonesFile       = "zones.yaml"
	GeographyFile   = "geography.yaml"
	ProfilesFile    = "profiles.yaml"
)

const weightTolerance = 1e-9

var validate = validator.New()

type electricityFile struct {
	Regions []ElectricityRow `yaml:"regions" validate:"required,min=1,dive"`
}

type eodbFile struct {
	Regions []EODBRow `yaml:"regions" validate:"required,min=1,dive"`
}

type laborRecord struct {
	Name          string  `yaml:"name" validate:"required"`
	Availability  string  `yaml:"availability" validate:"required"`
	SkilledCost   float64 `yaml:"skilled_cost" validate:"gte=0"`
	UnskilledCost float64 `yaml:"unskilled_cost" validate:"gte=0"`
}

type laborFile struct {
	Regions []laborRecord `yaml:"regions" validate:"required,min=1,dive"`
}

type zoneRecord struct {
	Name  string   `yaml:"name" validate:"required"`
	Zones []string `yaml:"zones" validate:"dive,required"`
}

type zonesFile struct {
	Regions []zoneRecord `yaml:"regions" validate:"dive"`
}

type geographyFile struct {
	Aliases   map[string]string   `yaml:"aliases" validate:"dive,keys,required,endkeys,required"`
	Neighbors map[string][]string `yaml:"neighbors" validate:"dive,keys,required,endkeys,dive,required"`
	SEZNames  map[string][]string `yaml:"sez_names" validate:"dive,keys,required,endkeys,dive,required"`
}

type industryRecord struct {
	Name              string   `yaml:"name" validate:"required"`
	Intensity         string   `yaml:"intensity" validate:"required"`
	ElectricityWeight float64  `yaml:"electricity_weight" validate:"gt=0,lte=1"`
	Description       string   `yaml:"description" validate:"required"`
	PreferredZones    []string `yaml:"preferred_zones" validate:"required,min=1,dive,required"`
}

type scaleRecord struct {
	Name    string `yaml:"name" validate:"required"`
	Range   string `yaml:"range" validate:"required"`
	Weights struct {
		Electricity    float64 `yaml:"electricity" validate:"gte=0,lte=1"`
		Labor          float64 `yaml:"labor" validate:"gte=0,lte=1"`
		EaseOfBusiness float64 `yaml:"ease_of_business" validate:"gte=0,lte=1"`
		Infrastructure float64 `yaml:"infrastructure" validate:"gte=0,lte=1"`
	} `yaml:"weights"`
}

type profilesFile struct {
	Industries []industryRecord `yaml:"industries" validate:"required,min=1,dive"`
	Scales     []scaleRecord    `yaml:"scales" validate:"required,min=1,dive"`
}

// Load decodes, validates and canonicalizes the reference tables found at
// the root of fsys.
func Load(fsys fs.FS) (*Dataset, error) {
	var geo geographyFile
	if err := decode(fsys, GeographyFile, &geo); err != nil {
		return nil, err
	}
	d := &Dataset{
		aliases:   geo.Aliases,
		neighbors: make(map[string][]string, len(geo.Neighbors)),
		sezNames:  make(map[string][]string, len(geo.SEZNames)),
	}
	if d.aliases == nil {
		d.aliases = map[string]string{}
	}
	for k, v := range geo.Neighbors {
		neighbors := make([]string, len(v))
		for i, n := range v {
			neighbors[i] = d.Canonicalize(n)
		}
		d.neighbors[d.Canonicalize(k)] = neighbors
	}
	for k, v := range geo.SEZNames {
		d.sezNames[d.Canonicalize(k)] = v
	}

	if err := d.loadElectricity(fsys); err != nil {
		return nil, err
	}
	if err := d.loadEODB(fsys); err != nil {
		return nil, err
	}
	if err := d.loadLabor(fsys); err != nil {
		return nil, err
	}
	if err := d.loadZones(fsys); err != nil {
		return nil, err
	}
	if err := d.loadProfiles(fsys); err != nil {
		return nil, err
	}
	return d, nil
}

func decode(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return eris.Wrapf(err, "dataset: read %s", name)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "dataset: parse %s", name)
	}
	if err := validate.Struct(out); err != nil {
		return eris.Wrapf(err, "dataset: validate %s", name)
	}
	return nil
}

// uniqueNames rejects a canonical region name seen twice in one table.
type uniqueNames struct {
	file string
	seen map[string]bool
}

func (u *uniqueNames) add(name string) error {
	if u.seen == nil {
		u.seen = make(map[string]bool)
	}
	if u.seen[name] {
		return eris.Errorf("dataset: %s: duplicate region %q", u.file, name)
	}
	u.seen[name] = true
	return nil
}

func (d *Dataset) loadElectricity(fsys fs.FS) error {
	var f electricityFile
	if err := decode(fsys, ElectricityFile, &f); err != nil {
		return err
	}
	names := uniqueNames{file: ElectricityFile}
	for i := range f.Regions {
		f.Regions[i].Region = d.Canonicalize(f.Regions[i].Region)
		if err := names.add(f.Regions[i].Region); err != nil {
			return err
		}
	}
	d.electricity = f.Regions
	return nil
}

func (d *Dataset) loadEODB(fsys fs.FS) error {
	var f eodbFile
	if err := decode(fsys, EODBFile, &f); err != nil {
		return err
	}
	names := uniqueNames{file: EODBFile}
	for i := range f.Regions {
		f.Regions[i].Region = d.Canonicalize(f.Regions[i].Region)
		if err := names.add(f.Regions[i].Region); err != nil {
			return err
		}
	}
	d.eodb = f.Regions
	return nil
}

func (d *Dataset) loadLabor(fsys fs.FS) error {
	var f laborFile
	if err := decode(fsys, LaborFile, &f); err != nil {
		return err
	}
	names := uniqueNames{file: LaborFile}
	d.labor = make([]LaborRow, 0, len(f.Regions))
	for _, rec := range f.Regions {
		avail, err := model.ParseAvailability(rec.Availability)
		if err != nil {
			return eris.Wrapf(err, "dataset: %s: region %q", LaborFile, rec.Name)
		}
		row := LaborRow{
			Region:        d.Canonicalize(rec.Name),
			Availability:  avail,
			SkilledCost:   rec.SkilledCost,
			UnskilledCost: rec.UnskilledCost,
		}
		if err := names.add(row.Region); err != nil {
			return err
		}
		d.labor = append(d.labor, row)
	}
	return nil
}

// loadZones builds one row per electricity region, adding rows for any extra
// regions the zone file lists. Zones are stored in column order.
func (d *Dataset) loadZones(fsys fs.FS) error {
	var f zonesFile
	if err := decode(fsys, ZonesFile, &f); err != nil {
		return err
	}
	names := uniqueNames{file: ZonesFile}
	present := make(map[string][]model.ZoneType, len(f.Regions))
	var order []string
	for _, rec := range f.Regions {
		region := d.Canonicalize(rec.Name)
		if err := names.add(region); err != nil {
			return err
		}
		var flags [len(zoneColumns)]bool
		for _, code := range rec.Zones {
			z, err := model.ParseZoneType(code)
			if err != nil {
				return eris.Wrapf(err, "dataset: %s: region %q", ZonesFile, rec.Name)
			}
			flags[z] = true
		}
		var zones []model.ZoneType
		for _, z := range zoneColumns {
			if flags[z] {
				zones = append(zones, z)
			}
		}
		present[region] = zones
		order = append(order, region)
	}

	d.zones = make([]ZoneRow, 0, len(d.electricity))
	covered := make(map[string]bool, len(d.electricity))
	for _, e := range d.electricity {
		d.zones = append(d.zones, ZoneRow{Region: e.Region, Zones: present[e.Region]})
		covered[e.Region] = true
	}
	for _, region := range order {
		if !covered[region] {
			d.zones = append(d.zones, ZoneRow{Region: region, Zones: present[region]})
		}
	}
	return nil
}

var zoneColumns = [...]model.ZoneType{
	model.ZoneSEZ, model.ZoneCorridor, model.ZoneNIMZ, model.ZonePark, model.ZonePLI,
}

func (d *Dataset) loadProfiles(fsys fs.FS) error {
	var f profilesFile
	if err := decode(fsys, ProfilesFile, &f); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, rec := range f.Industries {
		ind := model.Industry{
			Name:              normalize.Key(rec.Name),
			Intensity:         rec.Intensity,
			ElectricityWeight: rec.ElectricityWeight,
			Description:       rec.Description,
		}
		if seen[ind.Name] {
			return eris.Errorf("dataset: %s: duplicate industry %q", ProfilesFile, ind.Name)
		}
		seen[ind.Name] = true
		for _, code := range rec.PreferredZones {
			z, err := model.ParseZoneType(code)
			if err != nil {
				return eris.Wrapf(err, "dataset: %s: industry %q", ProfilesFile, rec.Name)
			}
			ind.PreferredZones = append(ind.PreferredZones, z)
		}
		d.industries = append(d.industries, ind)
	}

	seen = make(map[string]bool)
	for _, rec := range f.Scales {
		s := model.Scale{
			Name:  normalize.Key(rec.Name),
			Range: rec.Range,
			Weights: model.ScaleWeights{
				Electricity:    rec.Weights.Electricity,
				Labor:          rec.Weights.Labor,
				EaseOfBusiness: rec.Weights.EaseOfBusiness,
				Infrastructure: rec.Weights.Infrastructure,
			},
		}
		if seen[s.Name] {
			return eris.Errorf("dataset: %s: duplicate scale %q", ProfilesFile, s.Name)
		}
		seen[s.Name] = true
		if sum := s.Weights.Sum(); math.Abs(sum-1) > weightTolerance {
			return eris.Errorf("dataset: %s: scale %q weights sum to %g, want 1", ProfilesFile, s.Name, sum)
		}
		d.scales = append(d.scales, s)
	}
	return nil
}
