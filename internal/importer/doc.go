// Package importer loads municipality and contact CSV files into the store.
// Imports are upserts keyed on natural identity (target name/website, contact
// email/full name); every run is summarized in an ImportLog row.
package importer
