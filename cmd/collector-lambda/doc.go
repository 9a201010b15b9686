// Command collector-lambda runs the image collection pipeline as an AWS Lambda
// function. It accepts {"urls": [...]} or {"input": "a,b"} events, or SQS
// batches whose bodies carry either form, and returns the run summary.
package main
