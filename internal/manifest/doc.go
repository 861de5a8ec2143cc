// Package manifest defines the static table of assets to fetch.
//
// A manifest maps local filenames to remote filenames under a common base
// URL, optionally pairing each file with a known-good SHA-256 digest. The
// local filename is the unique identifier for a download task across the
// whole pipeline; entry order is preserved and determines report order.
//
// # Sources
//
// The compiled-in default manifest (Default) lists the planetary textures
// shipped with the simulation. Alternative manifests can be loaded from a
// YAML file:
//
//	base_url: https://www.solarsystemscope.com/textures/download
//	files:
//	  - local: earth.jpg
//	    remote: 2k_earth_daymap.jpg
//	    sha256: 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824
//	  - local: moon.jpg
//	    remote: 2k_moon.jpg
//
// Entries without a sha256 field are downloaded without verification.
package manifest
