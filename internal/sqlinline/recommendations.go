package sqlinline

const QCreateRecommendationsSchema = `--sql c3ea31c8-6a08-4720-bc25-03665e86b2c4
create table if not exists recommendations (
  id           uuid primary key,
  user_id      text,
  country      text,
  source       text not null,
  shape_family text not null,
  cost_avg     bigint not null,
  payload      jsonb not null,
  image_job_id text,
  image_state  text,
  image_url    text,
  created_at   timestamptz not null default now(),
  updated_at   timestamptz not null default now()
);
create index if not exists recommendations_user_created_idx
  on recommendations (user_id, created_at desc);
create index if not exists recommendations_pending_image_idx
  on recommendations (updated_at)
  where image_state in ('submitted', 'queued', 'processing');`

const QInsertRecommendation = `--sql bd668424-2d5f-4f5f-b161-98cb8cacc6d8
insert into recommendations (
  id, user_id, country, source, shape_family, cost_avg, payload,
  image_job_id, image_state, created_at, updated_at
)
values (
  $1::uuid, nullif($2::text, ''), nullif($3::text, ''), $4::text, $5::text, $6::bigint, $7::jsonb,
  $8::text, $9::text, $10::timestamptz, $10::timestamptz
)`

const QSelectRecommendation = `--sql 661f7206-a307-4a2d-a76a-b06773503623
select payload, coalesce(image_state, ''), coalesce(image_url, ''), updated_at
from recommendations
where id = $1::uuid`

const QSelectUserRecommendations = `--sql 639a93d8-8b58-4e16-91fe-29c6f8024e0f
select payload, coalesce(image_state, ''), coalesce(image_url, ''), updated_at
from recommendations
where user_id = $1::text
order by created_at desc
limit $2 offset $3`

const QCountUserRecommendations = `--sql 5276da36-ed36-4710-af34-39f548b890fd
select count(*)
from recommendations
where user_id = $1::text`

const QSelectPendingImages = `--sql d2872dff-ac33-4b43-8e5c-797e345a1e03
select id::text, image_job_id
from recommendations
where image_job_id is not null
  and image_state in ('submitted', 'queued', 'processing')
order by updated_at asc
limit $1`

const QUpdateRecommendationImage = `--sql e340e3e7-5b3b-405a-99ad-36632c0891fd
update recommendations
set image_state = $2::text,
    image_url = nullif($3::text, ''),
    updated_at = now()
where id = $1::uuid`
