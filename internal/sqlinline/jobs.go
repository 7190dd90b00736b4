package sqlinline

const QEnqueueGenerationJob = `--sql 7c1f3a8e-92d4-4b6a-8f1e-3d9b5c2a7e41
insert into generation_jobs(
  id,
  user_id,
  task_type,
  status,
  payload,
  created_at,
  updated_at
) values (
  gen_random_uuid(),
  $1::uuid,
  $2::text,
  'QUEUED',
  $3::jsonb,
  now(),
  now()
) returning id;
`

const QClaimGenerationJob = `--sql b4e8d2f1-6a3c-47b9-9e5d-1f8a4c6b2d93
with next_job as (
    select id
    from generation_jobs
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update generation_jobs
    set status = 'RUNNING', updated_at = now()
    where id in (select id from next_job)
    returning id, user_id, task_type, payload
)
select * from updated;
`

const QCompleteGenerationJob = `--sql 9d2c5e7a-1b4f-4d8c-a6e3-7f2b9d4c8a15
update generation_jobs
set status = $2::text,
    result = coalesce($3::jsonb, result),
    error_message = coalesce(nullif($4::text, ''), error_message),
    updated_at = now()
where id = $1::uuid;
`

const QSelectGenerationJobForUser = `--sql e6a9f4b2-8c1d-4e7a-b3f5-2d8c6a1e9b47
select id, user_id, task_type, status, payload, result, error_message, created_at, updated_at
from generation_jobs
where id = $1::uuid and user_id = $2::uuid
limit 1;
`
