// Package domain defines the core models of the Brain Scan client.
//
// Models mirror the backend payloads and carry no IO dependencies:
//
//   - Claims: identity decoded from a bearer credential
//   - Prediction: an inference record with result normalization
//   - Doctor, Profile: account records shown in the dashboards
//   - Registration, Credentials: form payloads with client-side validation
//   - Errors: coded domain errors
package domain
