// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package logging configures the station's internal logs.

Every actor logs through logrus with structured fields (pump, customer,
grade). Output goes to stderr by default; the interactive shell writes its
reports to stdout so the two never interleave on a terminal that redirects
one of them.
*/
package logging
