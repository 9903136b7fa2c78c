// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the pbweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations should be passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they may be accumulated and validated in another
// (possibly non-exported) config struct (or directly in the relevant
// end-component such as a UseCase instance). This design decision
// causes a bit of redundancy in favor of a defensive solution.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
	"github.com/momeni/park-bill/pkg/core/usecase/parkinguc"
	"github.com/momeni/park-bill/pkg/core/usecase/reportuc"
	"github.com/momeni/park-bill/pkg/core/usecase/washinguc"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so other layers can change freely without reformatting the
// deployed configuration files.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Usecases Usecases // Supported use cases configuration settings
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values
// with their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	nil2Zero(&c.Gin.Logger)
	nil2Zero(&c.Gin.Recovery)
	if err := c.Usecases.Parking.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating parking settings: %w", err)
	}
	if err := c.Usecases.Washing.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating washing settings: %w", err)
	}
	if err := c.Usecases.Reports.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating reports settings: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		return nil, fmt.Errorf(
			"%#v.ConnectionPool: %w", c.Database, err,
		)
	}
	return p, nil
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like pbweb
	User    string // role name to connect with
	PassDir string `yaml:"pass-dir"` // path of the passwords dir
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
func (d Database) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPool: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, user name, database name, and password value. These items are
// directly taken from the `d` settings, but the password value which is
// read from the given `path` file. Returned URL has the postgresql
// scheme. The `path` file may contain empty or `#`-commented lines in
// addition to the password specifying lines which should conform with
// the pgpass files format with lines like this:
//
//	host:port:dbname:user:password
func (d Database) ConnectionURL(path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.User)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.User, pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized; missing items take their default values
// during the validation and normalization phase.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	engine := gin.New()
	engine.Use(middlewares...)
	return engine
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Parking Parking // parking ledger use case settings
	Washing Washing // washing service board use case settings
	Reports Reports // reporting use case settings
}

// Default values for the Parking settings. Rates are stated per
// minute, so a 2000 per hour rate appears as 2000/60 here.
const (
	DefaultCarRatePerMinute        = 2000.0 / 60
	DefaultMotorcycleRatePerMinute = 1000.0 / 60
	DefaultHelmetUnitCost          = 5000
	DefaultFreeMinutesThreshold    = 0
	DefaultMaxCapacity             = 50
)

// Parking contains the configuration settings for the parking ledger
// use case. Fields are defined as pointers, so it is possible to
// detect if they are or are not initialized; missing items take their
// default values during the validation and normalization phase.
type Parking struct {
	// CarRatePerMinute is the per-minute parking rate for cars.
	CarRatePerMinute *float64 `yaml:"car-rate-per-minute"`
	// MotorcycleRatePerMinute is the per-minute rate for motorcycles.
	MotorcycleRatePerMinute *float64 `yaml:"motorcycle-rate-per-minute"`
	// HelmetUnitCost is the storage fee per stored helmet.
	HelmetUnitCost *int64 `yaml:"helmet-unit-cost"`
	// FreeMinutesThreshold is the grace period in minutes; stays
	// which do not exceed it incur no parking charge.
	FreeMinutesThreshold *int `yaml:"free-minutes-threshold"`
	// MaxCapacity is the total number of parking slots.
	MaxCapacity *int `yaml:"max-capacity"`
}

func (p *Parking) validateAndNormalize() error {
	if p.CarRatePerMinute == nil {
		v := float64(DefaultCarRatePerMinute)
		p.CarRatePerMinute = &v
	}
	if p.MotorcycleRatePerMinute == nil {
		v := float64(DefaultMotorcycleRatePerMinute)
		p.MotorcycleRatePerMinute = &v
	}
	if p.HelmetUnitCost == nil {
		v := int64(DefaultHelmetUnitCost)
		p.HelmetUnitCost = &v
	}
	if p.FreeMinutesThreshold == nil {
		v := DefaultFreeMinutesThreshold
		p.FreeMinutesThreshold = &v
	}
	if p.MaxCapacity == nil {
		v := DefaultMaxCapacity
		p.MaxCapacity = &v
	}
	_, err := p.RateConfig()
	return err
}

// RateConfig converts the parking settings into a validated model
// layer rate configuration.
func (p Parking) RateConfig() (model.RateConfig, error) {
	return model.NewRateConfig(
		*p.CarRatePerMinute,
		*p.MotorcycleRatePerMinute,
		model.Money(*p.HelmetUnitCost),
		*p.FreeMinutesThreshold,
		*p.MaxCapacity,
	)
}

// NewUseCase instantiates a new parking ledger use case based on the
// settings in the `p` struct, writing committed states through the
// given pool and sessions repository. A nil pool configures a memory
// only ledger.
func (p Parking) NewUseCase(
	pool repo.Pool, r repo.Sessions,
) (*parkinguc.UseCase, error) {
	rates, err := p.RateConfig()
	if err != nil {
		return nil, err
	}
	opts := make([]parkinguc.Option, 0, 1)
	if pool != nil {
		opts = append(opts, parkinguc.WithPersistence(pool, r))
	}
	return parkinguc.New(rates, opts...)
}

// Default tier prices for the Washing settings.
const (
	DefaultBasicPrice   = 20000
	DefaultPremiumPrice = 45000
	DefaultDeluxePrice  = 70000
)

// Washing contains the configuration settings for the washing service
// board use case, namely the tier pricebook. Fields are defined as
// pointers, so it is possible to detect if they are or are not
// initialized; missing items take their default values during the
// validation and normalization phase.
type Washing struct {
	BasicPrice   *int64 `yaml:"basic-price"`   // exterior wash
	PremiumPrice *int64 `yaml:"premium-price"` // exterior and interior
	DeluxePrice  *int64 `yaml:"deluxe-price"`  // full detail
}

func (w *Washing) validateAndNormalize() error {
	if w.BasicPrice == nil {
		v := int64(DefaultBasicPrice)
		w.BasicPrice = &v
	}
	if w.PremiumPrice == nil {
		v := int64(DefaultPremiumPrice)
		w.PremiumPrice = &v
	}
	if w.DeluxePrice == nil {
		v := int64(DefaultDeluxePrice)
		w.DeluxePrice = &v
	}
	for _, p := range []int64{
		*w.BasicPrice, *w.PremiumPrice, *w.DeluxePrice,
	} {
		if p < 0 {
			return fmt.Errorf("negative tier price: %d", p)
		}
	}
	return nil
}

// Price resolves the frozen job price of the given service type tier.
// Invalid tiers cause a panic like the model.ServiceType.String
// method, so callers must validate the tier beforehand.
func (w Washing) Price(t model.ServiceType) model.Money {
	switch t {
	case model.ServiceTypeBasic:
		return model.Money(*w.BasicPrice)
	case model.ServiceTypePremium:
		return model.Money(*w.PremiumPrice)
	case model.ServiceTypeDeluxe:
		return model.Money(*w.DeluxePrice)
	default:
		panic(model.ServiceTypeError(t))
	}
}

// NewUseCase instantiates a new washing service board use case,
// resolving assignment targets through the given washers directory
// and writing committed states through the given pool and services
// repository. A nil pool configures a memory only board.
func (w Washing) NewUseCase(
	pool repo.Pool, r repo.Services, washers repo.Washers,
) (*washinguc.UseCase, error) {
	opts := make([]washinguc.Option, 0, 1)
	if pool != nil {
		opts = append(opts, washinguc.WithPersistence(pool, r))
	}
	return washinguc.New(washers, opts...)
}

// Reports contains the configuration settings for the reporting use
// case, namely the operating window of the hourly breakdown. Fields
// are defined as pointers, so it is possible to detect if they are or
// are not initialized; missing items take their default values during
// the validation and normalization phase.
type Reports struct {
	// OpenHour is the first hour (inclusive) of the hourly breakdown.
	OpenHour *int `yaml:"open-hour"`
	// CloseHour is the last hour (exclusive) of the hourly breakdown,
	// may be 24 in order to cover until midnight.
	CloseHour *int `yaml:"close-hour"`
}

func (r *Reports) validateAndNormalize() error {
	if r.OpenHour == nil {
		v := reportuc.DefaultOpenHour
		r.OpenHour = &v
	}
	if r.CloseHour == nil {
		v := reportuc.DefaultCloseHour
		r.CloseHour = &v
	}
	if *r.OpenHour < 0 || *r.CloseHour > 24 || *r.OpenHour >= *r.CloseHour {
		return fmt.Errorf(
			"invalid operating window: [%d, %d)",
			*r.OpenHour, *r.CloseHour,
		)
	}
	return nil
}

// NewUseCase instantiates a new reporting use case based on the
// settings in the `r` struct, reading the parking and washing
// histories from the given providers.
func (r Reports) NewUseCase(
	parking reportuc.ParkingHistory, washing reportuc.WashingHistory,
) (*reportuc.UseCase, error) {
	return reportuc.New(
		parking, washing,
		reportuc.WithOperatingWindow(*r.OpenHour, *r.CloseHour),
	)
}

// nil2Zero replaces a nil pointer with a pointer to the zero value.
func nil2Zero[T any](v **T) {
	if *v == nil {
		*v = new(T)
	}
}
