// Package harness runs mining scenarios described in YAML and checks their
// outcome against declared assertions and golden snapshots.
//
// # Scenario Format
//
//	name: weather
//	description: "Sunny days lead to hikes"
//	run_id: weather-run            # optional, default "test-run-default"
//	dataset:
//	  relation: weather
//	  attributes:
//	    - name: Weather
//	      values: [Sunny, Rainy]
//	    - name: Activity
//	      values: [Hike, Read]
//	  rows:
//	    - [Sunny, Hike]
//	    - [Rainy, Read]
//	  # or: arff: weather.arff     (relative to the scenario file)
//	missing: fill                  # drop | fill | keep
//	bin: { age: 10 }
//	thresholds:
//	  support: 0.5
//	  confidence: 0.5
//	  filter_support: true         # optional, default true
//	  filter_confidence: true      # optional, default true
//	assertions:
//	  - type: cycles
//	    value: 2
//	  - type: item
//	    item: Weather=Sunny
//	    count: 3
//	  - type: itemset
//	    items: [Weather=Sunny, Activity=Hike]
//	    count: 2
//	    confidence: 0.667
//	  - type: absent
//	    items: [Weather=Sunny, Activity=Read]
//	  - type: remaining_rows
//	    value: 3
//	  - type: error
//	    code: CONFIGURATION
//
// # Determinism
//
// Every run uses a fixed run ID and a frozen clock, so the JSON rendering
// of a result is byte-identical across runs and can be golden-tested.
package harness
