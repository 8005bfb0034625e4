// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-arbiter
//
// go-arbiter is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-arbiter is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-arbiter.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"reflect"
	"strconv"
)

// AutogenLocal is the default Local config built by walking the version tags
// on the Local struct up to the latest version.
var AutogenLocal = GetVersionedDefaultLocalConfig(getLatestConfigVersion())

// MigrationResult represents a single field migration from one version to another
type MigrationResult struct {
	FieldName              string
	OldVersion, NewVersion uint32
	OldValue, NewValue     any
}

// migrate walks cfg from its recorded version up to the latest one. A field
// is moved to the next version's default only when its current value still
// equals the default of the version it came from; operator overrides are
// left untouched.
func migrate(cfg Local) (newCfg Local, migrations []MigrationResult, err error) {
	newCfg = cfg
	originalVersion := cfg.Version
	latestConfigVersion := getLatestConfigVersion()

	if cfg.Version > latestConfigVersion {
		err = fmt.Errorf("unexpected config version: %d", cfg.Version)
		return
	}

	// Track which fields were migrated during this entire process
	migrationResults := make(map[string]MigrationResult)
	record := func(fieldName string, nextVersion uint32, oldValue, newValue any) {
		if m, exists := migrationResults[fieldName]; exists {
			m.NewValue = newValue
			m.NewVersion = nextVersion
			migrationResults[fieldName] = m
			return
		}
		migrationResults[fieldName] = MigrationResult{
			FieldName:  fieldName,
			OldVersion: originalVersion,
			NewVersion: nextVersion,
			OldValue:   oldValue,
			NewValue:   newValue,
		}
	}

	localType := reflect.TypeFor[Local]()
	for newCfg.Version != latestConfigVersion {
		defaultCurrentConfig := GetVersionedDefaultLocalConfig(newCfg.Version)
		nextVersion := newCfg.Version + 1
		for fieldNum := 0; fieldNum < localType.NumField(); fieldNum++ {
			field := localType.Field(fieldNum)
			nextVersionDefaultValue, hasTag := field.Tag.Lookup(fmt.Sprintf("version[%d]", nextVersion))
			if !hasTag {
				continue
			}

			// we have found a field that has a new value for this new version. See if the current
			// configuration value for that field is identical to the default configuration for the field.
			curField := reflect.ValueOf(&newCfg).Elem().FieldByName(field.Name)
			defField := reflect.ValueOf(&defaultCurrentConfig).Elem().FieldByName(field.Name)
			switch defField.Kind() {
			case reflect.Bool:
				if curField.Bool() == defField.Bool() {
					// we're skipping the error checking here since we already tested that in the unit test.
					boolVal, _ := strconv.ParseBool(nextVersionDefaultValue)
					curField.SetBool(boolVal)
					record(field.Name, nextVersion, defField.Bool(), boolVal)
				}
			case reflect.Int, reflect.Int32, reflect.Int64:
				if curField.Int() == defField.Int() {
					intVal, _ := strconv.ParseInt(nextVersionDefaultValue, 10, 64)
					curField.SetInt(intVal)
					record(field.Name, nextVersion, defField.Int(), intVal)
				}
			case reflect.Uint, reflect.Uint32, reflect.Uint64:
				if curField.Uint() == defField.Uint() {
					uintVal, _ := strconv.ParseUint(nextVersionDefaultValue, 10, 64)
					curField.SetUint(uintVal)
					record(field.Name, nextVersion, defField.Uint(), uintVal)
				}
			case reflect.String:
				if curField.String() == defField.String() {
					curField.SetString(nextVersionDefaultValue)
					record(field.Name, nextVersion, defField.String(), nextVersionDefaultValue)
				}
			default:
				panic(fmt.Sprintf("unsupported data type (%s) encountered when reflecting on config.Local datatype %s", defField.Kind(), field.Name))
			}
		}
	}

	// Only return migrations where the value actually changed
	for _, m := range migrationResults {
		if m.FieldName != "Version" && m.OldValue != m.NewValue {
			migrations = append(migrations, m)
		}
	}

	return
}

func getLatestConfigVersion() uint32 {
	localType := reflect.TypeFor[Local]()
	versionField, found := localType.FieldByName("Version")
	if !found {
		return 0
	}
	version := uint32(0)
	for {
		_, hasTag := versionField.Tag.Lookup(fmt.Sprintf("version[%d]", version+1))
		if !hasTag {
			return version
		}
		version++
	}
}

// GetVersionedDefaultLocalConfig returns the default config for the given version.
func GetVersionedDefaultLocalConfig(version uint32) (local Local) {
	if version > 0 {
		local = GetVersionedDefaultLocalConfig(version - 1)
	}
	// apply version specific changes.
	localType := reflect.TypeFor[Local]()
	for fieldNum := 0; fieldNum < localType.NumField(); fieldNum++ {
		field := localType.Field(fieldNum)
		versionDefaultValue, hasTag := field.Tag.Lookup(fmt.Sprintf("version[%d]", version))
		if !hasTag {
			continue
		}
		fieldValue := reflect.ValueOf(&local).Elem().FieldByName(field.Name)
		switch fieldValue.Kind() {
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(versionDefaultValue)
			if err != nil {
				panic(err)
			}
			fieldValue.SetBool(boolVal)
		case reflect.Int, reflect.Int32, reflect.Int64:
			bits := 64
			if fieldValue.Kind() == reflect.Int32 {
				bits = 32
			}
			intVal, err := strconv.ParseInt(versionDefaultValue, 10, bits)
			if err != nil {
				panic(err)
			}
			fieldValue.SetInt(intVal)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			bits := 64
			if fieldValue.Kind() == reflect.Uint32 {
				bits = 32
			}
			uintVal, err := strconv.ParseUint(versionDefaultValue, 10, bits)
			if err != nil {
				panic(err)
			}
			fieldValue.SetUint(uintVal)
		case reflect.String:
			fieldValue.SetString(versionDefaultValue)
		default:
			panic(fmt.Sprintf("unsupported data type (%s) encountered when reflecting on config.Local datatype %s", fieldValue.Kind(), field.Name))
		}
	}
	return
}

// GetNonDefaultConfigValues takes a provided cfg and list of field names, and returns a map of all values in cfg
// that are not set to the default for the latest version.
func GetNonDefaultConfigValues(cfg Local, fieldNames []string) map[string]interface{} {
	defCfg := GetDefaultLocal()
	ret := make(map[string]interface{})

	for _, fieldName := range fieldNames {
		defField := reflect.ValueOf(defCfg).FieldByName(fieldName)
		if !defField.IsValid() {
			continue
		}
		cfgField := reflect.ValueOf(cfg).FieldByName(fieldName)
		if !cfgField.IsValid() {
			continue
		}
		if !reflect.DeepEqual(defField.Interface(), cfgField.Interface()) {
			ret[fieldName] = cfgField.Interface()
		}
	}
	return ret
}
